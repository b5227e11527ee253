package playback

import "math"

// ==================================================================
// 播放控制 API
// ==================================================================

// Play 开始或继续播放，同时清除 Completed
func (s *State) Play() {
	s.Flags = SetPlaying(s.Flags)
}

// Pause 暂停播放，保留当前时间
func (s *State) Pause() {
	s.Flags = ClearPlaying(s.Flags)
}

// Stop 归零时间并暂停
func (s *State) Stop() {
	s.Timer.Reset()
	s.Flags = ClearPlaying(s.Flags)
}

// Rewind 归零时间，保留播放/暂停状态
// 已完成的非循环轨迹在 Rewind 后重新可用（Completed 被清除），但需要 Play 才会继续推进
func (s *State) Rewind() {
	s.Timer.Reset()
	s.Flags &^= FlagCompleted
}

// SetLooping 切换循环模式
func (s *State) SetLooping(on bool) {
	s.Flags = SetFlag(s.Flags, FlagLooping, on)
}

// SetPingPong 切换乒乓模式
func (s *State) SetPingPong(on bool) {
	s.Flags = SetFlag(s.Flags, FlagPingPong, on)
}

// SetDuration 修改总时长，当前时间被限制在新时长以内
func (s *State) SetDuration(duration float64) {
	s.Timer.Duration = duration
	s.SetTime(s.Timer.Current)
}

// ==================================================================
// 速度控制
// ==================================================================

// SetTimeScale 设置带符号速度倍率
func (s *State) SetTimeScale(scale float64) {
	s.Speed = scale
}

// SlowMo 半速
func (s *State) SlowMo() {
	s.Speed = 0.5
}

// FastForward 两倍速
func (s *State) FastForward() {
	s.Speed = 2
}

// Reverse 反向播放，保留速度大小
func (s *State) Reverse() {
	s.Speed = -math.Abs(s.Speed)
}

// NormalSpeed 恢复正向一倍速
func (s *State) NormalSpeed() {
	s.Speed = 1
}

// ==================================================================
// 逐帧推进
// ==================================================================

// Tick 推进一帧
//
// 参数：
//   - dt: 本帧时长（秒，>= 0）
//
// 返回：
//   - eventTriggered: 本帧是否跨越边界（循环折回 / 非循环到达端点）
//   - normalizedTime: 推进后的归一化进度（乒乓模式下已映射）
//
// 流程：
//  1. 未在播放：不修改任何状态，返回当前进度
//  2. nextTime = current + dt*speed
//  3. 循环模式：折回 [0, duration)，事件 = 是否越界
//  4. 非循环模式：钳制到 [0, duration]，到达端点则停止播放并置位 Completed
//  5. 计算归一化进度，乒乓模式下再映射
//
// 注意：每个逻辑帧只能调用一次，重复调用会重复推进（不做内部防护）。
func (s *State) Tick(dt float64) (eventTriggered bool, normalizedTime float64) {
	if !s.Flags.IsPlaying() {
		return false, s.NormalizedProgress()
	}

	nextTime := CalculateNextTime(s.Timer.Current, dt, s.Speed)

	if s.Flags.IsLooping() {
		wrapped, didLoop := WrapTime(nextTime, s.Timer.Duration)
		s.Timer.Current = wrapped
		s.Flags = SetFlag(s.Flags, FlagCompleted, didLoop)
		eventTriggered = didLoop
	} else {
		clamped, finished := ClampTime(nextTime, s.Timer.Duration)
		s.Timer.Current = clamped
		if finished {
			s.Flags = MarkCompleted(s.Flags)
			eventTriggered = true
		} else {
			s.Flags &^= FlagCompleted
		}
	}

	return eventTriggered, s.NormalizedProgress()
}

// ==================================================================
// 查询
// ==================================================================

// NormalizedProgress 归一化进度 [0, 1]，乒乓模式下返回映射后的值
func (s *State) NormalizedProgress() float64 {
	p := CalculateNormalizedProgress(s.Timer.Current, s.Timer.Duration)
	if s.Flags.IsPingPong() {
		return ApplyPingPong(p)
	}
	return p
}

// RawProgress 未经乒乓映射的归一化进度
func (s *State) RawProgress() float64 {
	return CalculateNormalizedProgress(s.Timer.Current, s.Timer.Duration)
}

// Progress 百分比进度 [0, 100]
func (s *State) Progress() float64 {
	return s.NormalizedProgress() * 100
}

// IsAtStart 是否位于起点附近（容差判断）
func (s *State) IsAtStart() bool {
	return IsNearStart(s.Timer.Current)
}

// IsAtEnd 是否位于终点附近（容差判断）
func (s *State) IsAtEnd() bool {
	return IsNearEnd(s.Timer.Current, s.Timer.Duration)
}

// SetTime 跳转到指定时间（秒），结果被限制在 [0, duration]
// 不触发边界事件，也不改变播放标志
func (s *State) SetTime(seconds float64) {
	upper := math.Max(s.Timer.Duration, 0)
	s.Timer.Current = math.Min(math.Max(seconds, 0), upper)
}

// SeekTo 同 SetTime
func (s *State) SeekTo(seconds float64) {
	s.SetTime(seconds)
}

// SeekNormalized 按归一化进度跳转，t 被限制在 [0, 1]
func (s *State) SeekNormalized(t float64) {
	s.SetTime(math.Min(math.Max(t, 0), 1) * s.Timer.Duration)
}
