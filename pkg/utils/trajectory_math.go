package utils

import "math"

// ResolvePositionInBasis 解析局部偏移为世界坐标
// 与 CoordinateBasis.GetPosition 相同，供只持有字段、不持有方法接收者的调用点使用
func ResolvePositionInBasis(basis CoordinateBasis, forwardOffset, rightOffset, upOffset float64) Vec3 {
	return basis.GetPosition(forwardOffset, rightOffset, upOffset)
}

// CalculateParabola 对称抛物线高度系数
// 公式：f(t) = 4·t·(1-t)
// t=0 与 t=1 时为 0，t=0.5 时取峰值 1
//
// 投掷类轨迹（如卷心菜投手）用它乘以最大高度得到当前高度
func CalculateParabola(t float64) float64 {
	return 4 * t * (1 - t)
}

// SinCos 一次调用同时返回 sin 与 cos
func SinCos(angle float64) (sin, cos float64) {
	return math.Sincos(angle)
}

// SafeAsin 先把输入限制在 [-1, 1] 再求反正弦
// 浮点误差可能让 dot 积略超 ±1，直接 math.Asin 会得到 NaN
func SafeAsin(v float64) float64 {
	return math.Asin(Clamp(v, -1, 1))
}

// SafeAcos 同 SafeAsin，用于夹角计算
func SafeAcos(v float64) float64 {
	return math.Acos(Clamp(v, -1, 1))
}

// Clamp 把 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 把 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// AngleBetween 返回两个向量之间的夹角（弧度，[0, π]）
// 任一向量为零向量时返回 0
func AngleBetween(a, b Vec3) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	return SafeAcos(a.Dot(b) / (la * lb))
}

// ElevationAngle 返回 dir 相对 basis 水平面（Forward/Right 平面）的仰角（弧度）
func ElevationAngle(basis CoordinateBasis, dir Vec3) float64 {
	n := dir.Normalize()
	if n.Length() == 0 {
		return 0
	}
	return SafeAsin(n.Dot(basis.Up))
}
