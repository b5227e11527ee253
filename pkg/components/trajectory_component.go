package components

import (
	"github.com/gonewx/trajectory/pkg/playback"
	"github.com/gonewx/trajectory/pkg/trajectory"
	"github.com/gonewx/trajectory/pkg/utils"
)

// TrajectoryComponent 一条正在播放的程序化轨迹
//
// 组件只存储数据，推进逻辑由 TrajectorySystem 负责：
// 每帧调用一次 State.Tick(dt)，把归一化时间交给 Evaluator，
// 结果写入同一实体的 PositionComponent。
type TrajectoryComponent struct {
	// ==========================================================================
	// 轨迹定义
	// ==========================================================================

	// Name 预设名称（调试 / 日志用），如 "cabbage_lob"
	Name string

	// Basis 发射时确定的局部坐标系（每次施法 / 开火创建一次）
	Basis utils.CoordinateBasis

	// Range 尺寸参数，由 Evaluator 解释
	Range trajectory.Range

	// Evaluator 曲线求值器（可能已被缓动包装）
	Evaluator trajectory.Evaluator

	// ==========================================================================
	// 播放状态
	// ==========================================================================

	// State 播放状态机
	State playback.State

	// StartDelay 发射延迟；走满之前 State 不推进
	StartDelay playback.Timer

	// NormalizedTime 最近一帧的归一化时间（乒乓模式下已映射）
	NormalizedTime float64

	// EventThisFrame 最近一帧是否触发边界事件
	EventThisFrame bool

	// EventCount 累计边界事件次数（循环次数 / 完成次数）
	EventCount int

	// ==========================================================================
	// 生命周期
	// ==========================================================================

	// DestroyOnComplete 非循环轨迹完成后销毁实体
	DestroyOnComplete bool

	// Linger 完成后保留的秒数（> 0 时通过 LingerComponent 延迟销毁）
	Linger float64
}

// PositionComponent 实体的世界坐标
type PositionComponent struct {
	Pos utils.Vec3
}

// TrailComponent 最近若干帧的位置，用于调试绘制轨迹尾迹
// Points 按时间顺序排列，最旧的在前
type TrailComponent struct {
	Points    []utils.Vec3
	MaxPoints int
}

// LingerComponent 轨迹完成后的停留计时
// 计时走满后实体被标记删除
type LingerComponent struct {
	Timer playback.Timer
}
