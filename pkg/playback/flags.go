package playback

import "strings"

// StatusFlags 播放状态位集合
//
// 各位相互独立，唯一的耦合是 SetPlaying：置位 Playing 的同时清除 Completed，
// 两者在同一次赋值中完成。
type StatusFlags uint8

const (
	FlagPlaying StatusFlags = 1 << iota
	FlagLooping
	FlagPingPong
	FlagCompleted
)

// IsPlaying 是否正在播放
func (f StatusFlags) IsPlaying() bool { return f&FlagPlaying != 0 }

// IsLooping 是否循环播放
func (f StatusFlags) IsLooping() bool { return f&FlagLooping != 0 }

// IsPingPong 是否乒乓往返
func (f StatusFlags) IsPingPong() bool { return f&FlagPingPong != 0 }

// HasCompleted 本帧是否跨越了边界
//
// 该位在下一次 Tick 重新计算之前保持不变（读取不会清除），
// 调用方应当每帧只消费一次。
func (f StatusFlags) HasCompleted() bool { return f&FlagCompleted != 0 }

// String 便于日志输出，如 "playing|looping"
func (f StatusFlags) String() string {
	if f == 0 {
		return "none"
	}
	parts := make([]string, 0, 4)
	if f.IsPlaying() {
		parts = append(parts, "playing")
	}
	if f.IsLooping() {
		parts = append(parts, "looping")
	}
	if f.IsPingPong() {
		parts = append(parts, "pingpong")
	}
	if f.HasCompleted() {
		parts = append(parts, "completed")
	}
	return strings.Join(parts, "|")
}
