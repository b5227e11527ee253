// Package utils 提供轨迹播放相关的数学工具
//
// basis.go 定义局部坐标系 CoordinateBasis，用于把"前/右/上"偏移量解析为世界坐标。
//
// # 坐标约定
//
//   - Forward：局部 +Z，规范轴 (0,0,1)
//   - Right：局部 +X，规范轴 (1,0,0)
//   - Up：局部 +Y，规范轴 (0,1,0)
//
// 轴向默认正交归一，但不做运行时校验：逐帧热路径上非正交输入会直接得到非正交结果。
//
// # 使用示例
//
//	basis := utils.BasisFromRotation(castPos, utils.QuatFromEuler(yaw, 0, 0))
//	pos := basis.GetPosition(5, 2, 1) // 前 5、右 2、上 1
package utils

// CoordinateBasis 局部坐标系（原点 + 三个轴向）
// 值语义，构造后不可变；平移操作返回新实例
type CoordinateBasis struct {
	Origin  Vec3
	Forward Vec3
	Right   Vec3
	Up      Vec3
}

// DefaultBasis 返回位于世界原点、与世界轴对齐的坐标系
func DefaultBasis() CoordinateBasis {
	return CoordinateBasis{
		Origin:  Vec3{},
		Forward: AxisForward,
		Right:   AxisRight,
		Up:      AxisUp,
	}
}

// NewBasis 使用显式轴向构造坐标系
func NewBasis(origin, forward, right, up Vec3) CoordinateBasis {
	return CoordinateBasis{Origin: origin, Forward: forward, Right: right, Up: up}
}

// BasisFromRotation 由旋转构造坐标系
// 三个轴为旋转作用于规范轴 (0,0,1)/(1,0,0)/(0,1,0) 的结果
func BasisFromRotation(origin Vec3, q Quat) CoordinateBasis {
	return CoordinateBasis{
		Origin:  origin,
		Forward: q.Rotate(AxisForward),
		Right:   q.Rotate(AxisRight),
		Up:      q.Rotate(AxisUp),
	}
}

// BasisLookAt 构造朝向 target 的正交坐标系
//
// 参数：
//   - origin: 坐标系原点
//   - target: 朝向目标（世界坐标）
//   - worldUp: 参考上方向（通常为 AxisUp）
//
// 当 target 与 origin 重合时退化为 DefaultBasis 的轴向；
// 当朝向与 worldUp 平行时改用 AxisForward 作为参考轴。
func BasisLookAt(origin, target, worldUp Vec3) CoordinateBasis {
	forward := target.Sub(origin).Normalize()
	if forward.Length() == 0 {
		b := DefaultBasis()
		b.Origin = origin
		return b
	}

	right := worldUp.Cross(forward)
	if right.Length() < 1e-9 {
		right = AxisForward.Cross(forward)
	}
	right = right.Normalize()
	up := forward.Cross(right)

	return CoordinateBasis{Origin: origin, Forward: forward, Right: right, Up: up}
}

// GetPosition 解析局部偏移为世界坐标
// 结果 = Origin + Forward*forwardOffset + Right*rightOffset + Up*upOffset
func (b CoordinateBasis) GetPosition(forwardOffset, rightOffset, upOffset float64) Vec3 {
	return b.Origin.
		Add(b.Forward.Scale(forwardOffset)).
		Add(b.Right.Scale(rightOffset)).
		Add(b.Up.Scale(upOffset))
}

// GetPositionAtDistance 沿 Forward 方向 distance 处的世界坐标
func (b CoordinateBasis) GetPositionAtDistance(distance float64) Vec3 {
	return b.Origin.Add(b.Forward.Scale(distance))
}

// LocalToWorld 把局部向量转换为世界坐标
// local.X → Right，local.Y → Up，local.Z → Forward
func (b CoordinateBasis) LocalToWorld(local Vec3) Vec3 {
	return b.GetPosition(local.Z, local.X, local.Y)
}

// DistanceTo 原点到 point 的距离
func (b CoordinateBasis) DistanceTo(point Vec3) float64 {
	return b.Origin.Sub(point).Length()
}

// OffsetBy 返回原点平移 worldOffset 后的新坐标系，轴向不变
func (b CoordinateBasis) OffsetBy(worldOffset Vec3) CoordinateBasis {
	b.Origin = b.Origin.Add(worldOffset)
	return b
}

// AtDistance 返回原点沿 Forward 前移 distance 后的新坐标系
func (b CoordinateBasis) AtDistance(distance float64) CoordinateBasis {
	b.Origin = b.GetPositionAtDistance(distance)
	return b
}
