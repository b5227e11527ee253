package playback

import "testing"

func TestTimerRatio(t *testing.T) {
	tests := []struct {
		name     string
		timer    Timer
		expected float64
	}{
		{"起点", Timer{Current: 0, Duration: 2}, 0},
		{"中点", Timer{Current: 1, Duration: 2}, 0.5},
		{"终点", Timer{Current: 2, Duration: 2}, 1},
		{"零时长", Timer{Current: 1, Duration: 0}, 0},
		{"负时长", Timer{Current: 1, Duration: -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.timer.Ratio(); got != tt.expected {
				t.Errorf("Ratio() = %v, 期望 %v", got, tt.expected)
			}
		})
	}
}

func TestTimerTickAndCheckComplete(t *testing.T) {
	timer := Timer{Duration: 1}

	if timer.TickAndCheckComplete(0.4) {
		t.Error("0.4/1 不应完成")
	}
	if timer.IsFull() {
		t.Error("0.4/1 不应走满")
	}
	if timer.TickAndCheckComplete(0.4) {
		t.Error("0.8/1 不应完成")
	}
	if !timer.TickAndCheckComplete(0.4) {
		t.Error("1.2/1 应完成")
	}
	if timer.Current != 1 {
		t.Errorf("Current = %v, 应被限制为 1", timer.Current)
	}
	if !timer.IsFull() {
		t.Error("应已走满")
	}

	timer.Reset()
	if timer.Current != 0 || timer.Duration != 1 {
		t.Errorf("Reset 后 = %+v, 期望 Current=0 Duration=1", timer)
	}
}
