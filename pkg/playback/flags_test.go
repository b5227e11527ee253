package playback

import "testing"

func TestStatusFlagsIndependent(t *testing.T) {
	var f StatusFlags
	f = SetFlag(f, FlagLooping, true)
	f = SetFlag(f, FlagPingPong, true)

	if f.IsPlaying() || f.HasCompleted() {
		t.Errorf("只应置位 looping|pingpong, 实际 %v", f)
	}
	if !f.IsLooping() || !f.IsPingPong() {
		t.Errorf("looping/pingpong 未置位: %v", f)
	}

	f = SetFlag(f, FlagLooping, false)
	if f.IsLooping() || !f.IsPingPong() {
		t.Errorf("清除 looping 不应影响 pingpong: %v", f)
	}
}

func TestStatusFlagsString(t *testing.T) {
	tests := []struct {
		flags    StatusFlags
		expected string
	}{
		{0, "none"},
		{FlagPlaying, "playing"},
		{FlagPlaying | FlagLooping, "playing|looping"},
		{FlagPingPong | FlagCompleted, "pingpong|completed"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.expected {
			t.Errorf("String() = %q, 期望 %q", got, tt.expected)
		}
	}
}
