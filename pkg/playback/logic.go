package playback

import "math"

// ==================================================================
// 纯函数状态逻辑 (State Logic)
// ==================================================================
//
// 本文件中的函数只接收基本数值并返回结果，不读写 State。
// State 的方法（api.go）负责调用这些函数并提交结果。

const (
	// Epsilon 时长退化阈值；Duration <= Epsilon 视为"已完成"
	Epsilon = 1e-6

	// NearEndThreshold 接近终点的比例阈值（容差带，不是精确相等）
	NearEndThreshold = 0.999

	// NearStartThreshold 接近起点的时间阈值（秒）
	NearStartThreshold = 0.001
)

// CalculateNextTime 按带符号速度推进时间
// 公式：current + dt*speed
func CalculateNextTime(current, dt, speed float64) float64 {
	return current + dt*speed
}

// WrapTime 把时间折回 [0, duration)
//
// 参数：
//   - time: 推进后的候选时间（可能为负或超出时长）
//   - duration: 周期时长
//
// 返回：
//   - wrapped: 折回后的时间，始终位于 [0, duration)
//   - didLoop: 候选时间在折回前是否落在 [0, duration) 之外
//
// 注意：
//   - duration <= Epsilon 时返回 (0, false)
//   - 单帧跨越多个周期时与跨越一个周期不作区分
func WrapTime(time, duration float64) (wrapped float64, didLoop bool) {
	if duration <= Epsilon {
		return 0, false
	}

	wrapped = math.Mod(time, duration)
	if wrapped < 0 {
		wrapped += duration
	}
	// -tiny + duration 在浮点下可能舍入为 duration
	if wrapped >= duration {
		wrapped = 0
	}

	didLoop = time >= duration || time < 0
	return wrapped, didLoop
}

// ClampTime 把时间限制在 [0, duration]
//
// 返回：
//   - clamped: 限制后的时间
//   - finished: 是否到达任一端点（正向到终点或反向到起点）
func ClampTime(time, duration float64) (clamped float64, finished bool) {
	if time >= duration {
		return duration, true
	}
	if time <= 0 {
		return 0, true
	}
	return time, false
}

// CalculateNormalizedProgress 归一化进度 elapsed/duration，限制在 [0, 1]
// duration <= Epsilon 时视为已完成，返回 1
func CalculateNormalizedProgress(elapsed, duration float64) float64 {
	if duration <= Epsilon {
		return 1
	}
	p := elapsed / duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ApplyPingPong 三角波映射 0→1→0
// 公式：1 - |2t - 1|，满足 f(t) = f(1-t)
func ApplyPingPong(t float64) float64 {
	return 1 - math.Abs(2*t-1)
}

// SetPlaying 置位 Playing 并清除 Completed（单次赋值）
func SetPlaying(flags StatusFlags) StatusFlags {
	return (flags | FlagPlaying) &^ FlagCompleted
}

// ClearPlaying 只清除 Playing，Completed 保持不变
func ClearPlaying(flags StatusFlags) StatusFlags {
	return flags &^ FlagPlaying
}

// MarkCompleted 到达非循环边界：停止播放并置位 Completed
func MarkCompleted(flags StatusFlags) StatusFlags {
	return (flags &^ FlagPlaying) | FlagCompleted
}

// SetFlag 按 on 置位或清除指定位
func SetFlag(flags, flag StatusFlags, on bool) StatusFlags {
	if on {
		return flags | flag
	}
	return flags &^ flag
}

// IsNearEnd 是否接近终点（比例 >= 0.999）
// duration <= Epsilon 时视为已在终点
func IsNearEnd(current, duration float64) bool {
	if duration <= Epsilon {
		return true
	}
	return current/duration >= NearEndThreshold
}

// IsNearStart 是否接近起点（current <= 0.001 秒）
func IsNearStart(current float64) bool {
	return current <= NearStartThreshold
}
