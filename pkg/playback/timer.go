package playback

// Timer 播放计时器（已过时间 / 总时长）
// 用于记录一条轨迹在当前周期内走过的时间
//
// 约束：Current >= 0；Current 可以短暂等于 Duration（到达终点那一帧）
type Timer struct {
	Current  float64 // 当前已过时间（秒）
	Duration float64 // 总时长（秒），期望 > 0
}

// Ratio 已过时间占总时长的比例
// Duration <= 0 时返回 0
func (t Timer) Ratio() float64 {
	if t.Duration > 0 {
		return t.Current / t.Duration
	}
	return 0
}

// IsFull 计时器是否已走满
func (t Timer) IsFull() bool {
	return t.Current >= t.Duration
}

// Reset 归零已过时间，保留总时长
func (t *Timer) Reset() {
	t.Current = 0
}

// TickAndCheckComplete 正向推进 dt 秒并返回是否走满
// Current 被限制在 Duration 以内；dt 需 >= 0，反向播放由 State.Tick 处理
func (t *Timer) TickAndCheckComplete(dt float64) bool {
	t.Current = min(t.Current+dt, t.Duration)
	return t.Current >= t.Duration
}
