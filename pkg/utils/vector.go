package utils

import "math"

// Vec3 三维向量（世界坐标 / 偏移量）
// 值类型，所有运算返回新向量，不修改接收者
type Vec3 struct {
	X, Y, Z float64
}

// 规范轴向
var (
	AxisForward = Vec3{X: 0, Y: 0, Z: 1}
	AxisRight   = Vec3{X: 1, Y: 0, Z: 0}
	AxisUp      = Vec3{X: 0, Y: 1, Z: 0}
)

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub 向量相减
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale 标量乘法
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积（左手系：Up × Forward = Right）
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize 返回单位向量
// 零向量原样返回（不产生 NaN）
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// LerpVec3 在 a 和 b 之间线性插值
func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: Lerp(a.X, b.X, t),
		Y: Lerp(a.Y, b.Y, t),
		Z: Lerp(a.Z, b.Z, t),
	}
}

// Quat 单位四元数，表示旋转
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity 单位旋转
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle 绕指定轴旋转 angle 弧度
// axis 会被归一化；零轴返回单位旋转
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Normalize()
	if n.Length() == 0 {
		return QuatIdentity()
	}
	s, c := SinCos(angle * 0.5)
	return Quat{X: n.X * s, Y: n.Y * s, Z: n.Z * s, W: c}
}

// QuatFromEuler 由欧拉角构造旋转（弧度）
// 应用顺序：roll(Z) → pitch(X) → yaw(Y)
func QuatFromEuler(yaw, pitch, roll float64) Quat {
	qy := QuatFromAxisAngle(AxisUp, yaw)
	qx := QuatFromAxisAngle(AxisRight, pitch)
	qz := QuatFromAxisAngle(AxisForward, roll)
	return qy.Mul(qx).Mul(qz)
}

// Mul 四元数乘法，结果等价于先应用 o 再应用 q
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate 将旋转应用到向量
//
// 使用 v' = v + 2w(u×v) + 2u×(u×v) 展开式，避免构造完整矩阵
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}
