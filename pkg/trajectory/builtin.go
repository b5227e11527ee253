package trajectory

import (
	"math"

	"github.com/gonewx/trajectory/pkg/utils"
)

// 内置求值器名称（配置文件中使用）
const (
	NameLinear = "linear"
	NameArc    = "arc"
	NameSweep  = "sweep"
	NameOrbit  = "orbit"
	NameHoming = "homing"
	NameHelix  = "helix"
)

// Linear 沿 Forward 匀速直线前进 Distance
type Linear struct{}

// Evaluate 实现 Evaluator
func (Linear) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	return basis.GetPosition(rng.Distance*t, 0, rng.Height)
}

// Arc 抛物线投掷：前向匀速，高度按 CalculateParabola 对称起落
//
// 起点与终点高度为 0，t=0.5 时达到 Height。
// 设置了 Target 时改为从原点飞向目标点，高度叠加在 Up 轴上。
type Arc struct{}

// Evaluate 实现 Evaluator
func (Arc) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	lift := rng.Height * utils.CalculateParabola(t)
	if rng.HasTarget {
		ground := utils.LerpVec3(basis.Origin, rng.Target, t)
		return ground.Add(basis.Up.Scale(lift))
	}
	return basis.GetPosition(rng.Distance*t, 0, lift)
}

// Sweep 以原点为圆心、Distance 为半径，在 Forward/Right 平面内
// 从 -Angle/2 扫到 +Angle/2（正角度偏向 Right）
type Sweep struct{}

// Evaluate 实现 Evaluator
func (Sweep) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	half := rng.Angle / 2
	s, c := utils.SinCos(utils.Lerp(-half, half, t))
	return basis.GetPosition(rng.Distance*c, rng.Distance*s, rng.Height)
}

// Orbit 绕原点一整圈，t=0 与 t=1 重合，适合循环播放
type Orbit struct{}

// Evaluate 实现 Evaluator
func (Orbit) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	s, c := utils.SinCos(2 * math.Pi * t)
	return basis.GetPosition(rng.Distance*c, rng.Distance*s, rng.Height)
}

// Homing 二次贝塞尔追踪曲线
//
// 起点为 basis.Origin，终点为 Target（未设置时取 Forward 方向 Distance 处），
// 控制点位于起终点中点，再向 Right 偏移 Width、向 Up 偏移 Height，
// 使弹道先向外侧鼓出再收拢到目标。
type Homing struct{}

// Evaluate 实现 Evaluator
func (Homing) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	start := basis.Origin
	end := basis.GetPositionAtDistance(rng.Distance)
	if rng.HasTarget {
		end = rng.Target
	}

	control := utils.LerpVec3(start, end, 0.5).
		Add(basis.Right.Scale(rng.Width)).
		Add(basis.Up.Scale(rng.Height))

	u := 1 - t
	return start.Scale(u * u).
		Add(control.Scale(2 * u * t)).
		Add(end.Scale(t * t))
}

// Helix 沿 Forward 前进 Distance，同时在 Right/Up 平面内以 Width 为半径旋转 Angle 弧度
type Helix struct{}

// Evaluate 实现 Evaluator
func (Helix) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	s, c := utils.SinCos(rng.Angle * t)
	return basis.GetPosition(rng.Distance*t, rng.Width*c, rng.Width*s+rng.Height)
}
