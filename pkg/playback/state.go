// Package playback 实现逐帧推进的轨迹播放状态机
//
// 一个 State 对应一条正在播放的轨迹实例。宿主每个逻辑帧调用一次 Tick(dt)，
// 得到本帧是否触发边界事件以及归一化时间；归一化时间再交给轨迹求值器
// （见 pkg/trajectory）与 CoordinateBasis 一起解析出世界坐标。
//
// 边界策略三选一：
//   - 非循环：到达终点（或反向到达起点）时钳制并停止，置位 Completed
//   - 循环：时间折回 [0, duration)，Completed 只在跨越边界的那一帧为真
//   - 乒乓：在上述任一策略之上，把归一化进度映射为 0→1→0
//
// # 并发
//
// State 是普通值类型，没有内部锁。每个实例只允许一个写入者每帧调用一次 Tick；
// 两次 Tick 之间可以任意调用只读查询。
package playback

// DefaultDuration 默认时长（秒）
const DefaultDuration = 1.0

// State 一条轨迹的播放状态
type State struct {
	Timer Timer
	// Speed 带符号速度倍率；负值表示反向播放
	Speed float64
	Flags StatusFlags
}

// DefaultState 默认状态：时长 1 秒、速度 1、正在播放
func DefaultState() State {
	return State{
		Timer: Timer{Current: 0, Duration: DefaultDuration},
		Speed: 1,
		Flags: FlagPlaying,
	}
}

// NewState 以指定时长创建默认状态
func NewState(duration float64) State {
	s := DefaultState()
	s.Timer.Duration = duration
	return s
}

// IsPlaying 是否正在播放
func (s *State) IsPlaying() bool { return s.Flags.IsPlaying() }

// IsLooping 是否循环播放
func (s *State) IsLooping() bool { return s.Flags.IsLooping() }

// IsPingPong 是否乒乓往返
func (s *State) IsPingPong() bool { return s.Flags.IsPingPong() }

// HasCompleted 最近一次 Tick 是否触发了边界事件
func (s *State) HasCompleted() bool { return s.Flags.HasCompleted() }

// CurrentTime 当前已过时间（秒）
func (s *State) CurrentTime() float64 { return s.Timer.Current }

// Duration 总时长（秒）
func (s *State) Duration() float64 { return s.Timer.Duration }
