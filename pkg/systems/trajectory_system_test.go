package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/gonewx/trajectory/pkg/components"
	"github.com/gonewx/trajectory/pkg/config"
	"github.com/gonewx/trajectory/pkg/ecs"
	"github.com/gonewx/trajectory/pkg/utils"
)

func boolPtr(b bool) *bool { return &b }

func linearPreset() config.TrajectoryPreset {
	return config.TrajectoryPreset{
		Evaluator: "linear",
		Duration:  1,
		Range:     config.RangeConfig{Distance: 10},
	}
}

func positionOf(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) utils.Vec3 {
	t.Helper()
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no PositionComponent", id)
	}
	return pos.Pos
}

func TestTrajectorySystemAdvancesAndDestroys(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	id, err := system.SpawnPreset("bolt", linearPreset(), utils.DefaultBasis())
	if err != nil {
		t.Fatalf("SpawnPreset failed: %v", err)
	}
	if got := positionOf(t, em, id); got.Z != 0 {
		t.Errorf("初始位置 Z = %v, 期望 0", got.Z)
	}

	wantZ := []float64{2.5, 5, 7.5, 10}
	for i, want := range wantZ {
		system.Update(0.25)
		if got := positionOf(t, em, id); math.Abs(got.Z-want) > 1e-9 {
			t.Errorf("帧 %d: Z = %v, 期望 %v", i+1, got.Z, want)
		}
	}

	traj, err := system.Trajectory(id)
	if err != nil {
		t.Fatal(err)
	}
	if !traj.EventThisFrame || traj.EventCount != 1 {
		t.Errorf("最后一帧应触发一次事件: this=%v count=%d", traj.EventThisFrame, traj.EventCount)
	}
	if !traj.State.HasCompleted() || traj.State.IsPlaying() {
		t.Errorf("完成后 flags = %s", traj.State.Flags)
	}

	em.RemoveMarkedEntities()
	if em.EntityExists(id) {
		t.Error("一次性轨迹完成后应被销毁")
	}
}

func TestTrajectorySystemLinger(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)
	lifetime := NewLifetimeSystem(em)

	preset := linearPreset()
	preset.Linger = 0.5
	id, _ := system.SpawnPreset("lob", preset, utils.DefaultBasis())

	system.Update(1)
	lifetime.Update(1.0 / 60)
	em.RemoveMarkedEntities()

	if !em.EntityExists(id) {
		t.Fatal("停留期间实体不应被销毁")
	}
	if !ecs.HasComponent[*components.LingerComponent](em, id) {
		t.Fatal("完成后应添加 LingerComponent")
	}

	// 停留期间 Tick 不再推进，也不会重复添加停留
	system.Update(0.25)
	lifetime.Update(0.5)
	em.RemoveMarkedEntities()
	if em.EntityExists(id) {
		t.Error("停留结束后实体应被销毁")
	}
}

func TestTrajectorySystemKeepWhenNotDestroying(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	preset := linearPreset()
	preset.DestroyOnComplete = boolPtr(false)
	id, _ := system.SpawnPreset("keep", preset, utils.DefaultBasis())

	system.Update(2)
	em.RemoveMarkedEntities()
	if !em.EntityExists(id) {
		t.Fatal("destroy_on_complete=false 时应保留实体")
	}

	// Rewind 后需要 Play 才继续
	if err := system.Rewind(id); err != nil {
		t.Fatal(err)
	}
	traj, _ := system.Trajectory(id)
	if traj.State.HasCompleted() || traj.State.CurrentTime() != 0 {
		t.Errorf("Rewind 后 state = %+v", traj.State)
	}
	if got := positionOf(t, em, id); got.Z != 0 {
		t.Errorf("Rewind 后位置应回到起点, Z = %v", got.Z)
	}

	system.Update(0.5)
	if traj.State.CurrentTime() != 0 {
		t.Error("Rewind 不应恢复播放")
	}

	if err := system.Play(id); err != nil {
		t.Fatal(err)
	}
	system.Update(0.5)
	if math.Abs(positionOf(t, em, id).Z-5) > 1e-9 {
		t.Errorf("Play 后位置 = %+v", positionOf(t, em, id))
	}
}

func TestTrajectorySystemStartDelay(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	preset := linearPreset()
	preset.StartDelay = 0.5
	id, _ := system.SpawnPreset("delayed", preset, utils.DefaultBasis())
	traj, _ := system.Trajectory(id)

	system.Update(0.25)
	system.Update(0.25)
	if traj.State.CurrentTime() != 0 {
		t.Errorf("延迟期间不应推进, current = %v", traj.State.CurrentTime())
	}
	if !traj.StartDelay.IsFull() {
		t.Error("延迟计时器应已走满")
	}

	system.Update(0.25)
	if traj.State.CurrentTime() != 0.25 {
		t.Errorf("延迟结束后应推进, current = %v", traj.State.CurrentTime())
	}
}

func TestTrajectorySystemLoopingEvents(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	var fired []ecs.EntityID
	system.OnBoundary = func(id ecs.EntityID, traj *components.TrajectoryComponent) {
		fired = append(fired, id)
	}

	preset := config.TrajectoryPreset{
		Evaluator: "orbit",
		Duration:  1,
		Looping:   boolPtr(true),
		Range:     config.RangeConfig{Distance: 2},
	}
	id, _ := system.SpawnPreset("orbit", preset, utils.DefaultBasis())

	// 1/8 秒一帧，24 帧恰好 3 圈
	for range 24 {
		system.Update(0.125)
	}

	traj, _ := system.Trajectory(id)
	if traj.EventCount != 3 {
		t.Errorf("EventCount = %d, 期望 3", traj.EventCount)
	}
	if len(fired) != 3 {
		t.Errorf("回调次数 = %d, 期望 3", len(fired))
	}
	if !traj.State.IsPlaying() {
		t.Error("循环轨迹应一直播放")
	}

	em.RemoveMarkedEntities()
	if !em.EntityExists(id) {
		t.Error("循环轨迹不应被销毁")
	}
}

func TestTrajectorySystemPauseFreezesPosition(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	id, _ := system.SpawnPreset("bolt", linearPreset(), utils.DefaultBasis())
	system.Update(0.25)

	if err := system.Pause(id); err != nil {
		t.Fatal(err)
	}
	before := positionOf(t, em, id)
	for range 10 {
		system.Update(0.1)
	}
	if after := positionOf(t, em, id); after != before {
		t.Errorf("暂停期间位置变化: %+v → %+v", before, after)
	}
}

func TestTrajectorySystemReverse(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	id, _ := system.SpawnPreset("bolt", linearPreset(), utils.DefaultBasis())
	system.Update(0.5)

	if err := system.SetTimeScale(id, -1); err != nil {
		t.Fatal(err)
	}
	system.Update(0.25)
	if got := positionOf(t, em, id); math.Abs(got.Z-2.5) > 1e-9 {
		t.Errorf("反向后 Z = %v, 期望 2.5", got.Z)
	}

	system.Update(0.5)
	traj, _ := system.Trajectory(id)
	if !traj.EventThisFrame || !traj.State.HasCompleted() {
		t.Error("反向到达起点应触发完成")
	}
}

func TestTrajectorySystemStopAndSeek(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	id, _ := system.SpawnPreset("bolt", linearPreset(), utils.DefaultBasis())
	system.Update(0.5)

	if err := system.SeekNormalized(id, 0.9); err != nil {
		t.Fatal(err)
	}
	if got := positionOf(t, em, id); math.Abs(got.Z-9) > 1e-9 {
		t.Errorf("Seek 后 Z = %v, 期望 9", got.Z)
	}

	if err := system.Stop(id); err != nil {
		t.Fatal(err)
	}
	traj, _ := system.Trajectory(id)
	if traj.State.IsPlaying() || traj.State.CurrentTime() != 0 {
		t.Errorf("Stop 后 state = %+v", traj.State)
	}
	trail, _ := ecs.GetComponent[*components.TrailComponent](em, id)
	if len(trail.Points) != 1 {
		t.Errorf("Stop 后尾迹只保留当前位置, len = %d", len(trail.Points))
	}
}

func TestTrajectorySystemMissingComponent(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)
	bare := em.CreateEntity()

	setScale := func(id ecs.EntityID) error { return system.SetTimeScale(id, 2) }
	seek := func(id ecs.EntityID) error { return system.SeekNormalized(id, 0.5) }
	ops := map[string]func(ecs.EntityID) error{
		"Play":           system.Play,
		"Pause":          system.Pause,
		"Stop":           system.Stop,
		"Rewind":         system.Rewind,
		"SetTimeScale":   setScale,
		"SeekNormalized": seek,
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			for _, id := range []ecs.EntityID{bare, 999} {
				if err := op(id); !errors.Is(err, ErrNoTrajectoryComponent) {
					t.Errorf("entity %d: expected ErrNoTrajectoryComponent, got %v", id, err)
				}
			}
		})
	}
}

func TestSpawnFromPreset(t *testing.T) {
	old := config.TrajectoryConfig
	defer func() { config.TrajectoryConfig = old }()

	config.TrajectoryConfig = &config.TrajectoryConfigFile{
		Presets: map[string]config.TrajectoryPreset{"bolt": linearPreset()},
	}

	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	id, err := system.SpawnFromPreset("bolt", utils.DefaultBasis())
	if err != nil {
		t.Fatalf("SpawnFromPreset failed: %v", err)
	}
	traj, _ := system.Trajectory(id)
	if traj.Name != "bolt" || !traj.State.IsPlaying() {
		t.Errorf("spawned trajectory = %+v", traj)
	}

	if _, err := system.SpawnFromPreset("missing", utils.DefaultBasis()); !errors.Is(err, config.ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}

	bad := linearPreset()
	bad.Evaluator = "zigzag"
	if _, err := system.SpawnPreset("bad", bad, utils.DefaultBasis()); err == nil {
		t.Error("unknown evaluator should fail to spawn")
	}
}

// viewerLoop 模拟查看器：每帧推进一次，实体被销毁后按同一倍率重新发射
type viewerLoop struct {
	em     *ecs.EntityManager
	system *TrajectorySystem
	scale  float64
	id     ecs.EntityID
	spawns int
	events int
}

func newViewerLoop(t *testing.T, scale float64) *viewerLoop {
	t.Helper()
	em := ecs.NewEntityManager()
	l := &viewerLoop{em: em, system: NewTrajectorySystem(em), scale: scale}
	l.system.OnBoundary = func(ecs.EntityID, *components.TrajectoryComponent) { l.events++ }
	l.spawn(t)
	return l
}

func (l *viewerLoop) spawn(t *testing.T) {
	t.Helper()
	id, err := l.system.SpawnPresetScaled("bolt", linearPreset(), utils.DefaultBasis(), l.scale)
	if err != nil {
		t.Fatalf("SpawnPresetScaled failed: %v", err)
	}
	l.id = id
	l.spawns++
}

func (l *viewerLoop) run(t *testing.T, frames int) {
	t.Helper()
	for range frames {
		l.system.Update(1.0 / 60)
		l.em.RemoveMarkedEntities()
		if !l.em.EntityExists(l.id) {
			l.spawn(t)
		}
	}
}

func TestSpawnPresetScaledDoesNotRespawnEveryFrame(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		wantZ float64 // 10 帧后的位置
	}{
		{"reverse", -1, 10 - 10.0/6},
		{"zero", 0, 0},
		{"double", 2, 20.0 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newViewerLoop(t, tt.scale)
			l.run(t, 10)

			if l.spawns != 1 || l.events != 0 {
				t.Errorf("scale=%v: spawns=%d events=%d, want 1 and 0", tt.scale, l.spawns, l.events)
			}
			if got := positionOf(t, l.em, l.id); math.Abs(got.Z-tt.wantZ) > 1e-9 {
				t.Errorf("scale=%v: Z = %v, want %v", tt.scale, got.Z, tt.wantZ)
			}
		})
	}
}

// TestReverseAfterSpawnRespawnsOnce 播放中途反向：回到起点完成一次，之后按反向倍率从终点重新发射
func TestReverseAfterSpawnRespawnsOnce(t *testing.T) {
	l := newViewerLoop(t, 1)
	l.run(t, 10)

	l.scale = -1
	if err := l.system.SetTimeScale(l.id, l.scale); err != nil {
		t.Fatal(err)
	}
	l.run(t, 30)

	if l.spawns != 2 || l.events != 1 {
		t.Fatalf("spawns=%d events=%d, want 2 and 1", l.spawns, l.events)
	}
	traj, err := l.system.Trajectory(l.id)
	if err != nil {
		t.Fatal(err)
	}
	if traj.State.Speed != -1 || !traj.State.IsPlaying() {
		t.Errorf("respawned state speed=%v flags=%s", traj.State.Speed, traj.State.Flags)
	}
	if traj.State.CurrentTime() < 0.5 {
		t.Errorf("respawned reverse trajectory should start near the end, current = %v", traj.State.CurrentTime())
	}
}

func TestPushTrail(t *testing.T) {
	trail := &components.TrailComponent{MaxPoints: 3}
	for i := range 5 {
		pushTrail(trail, utils.Vec3{X: float64(i)})
	}
	if len(trail.Points) != 3 {
		t.Fatalf("len = %d, 期望 3", len(trail.Points))
	}
	for i, p := range trail.Points {
		if p.X != float64(i+2) {
			t.Errorf("Points[%d].X = %v, 期望 %v", i, p.X, i+2)
		}
	}

	empty := &components.TrailComponent{}
	pushTrail(empty, utils.Vec3{})
	if len(empty.Points) != 0 {
		t.Error("MaxPoints=0 不记录尾迹")
	}
}

// TestTrajectorySystemDeterministic 相同输入的两次运行结果逐位一致
func TestTrajectorySystemDeterministic(t *testing.T) {
	run := func() []utils.Vec3 {
		em := ecs.NewEntityManager()
		system := NewTrajectorySystem(em)

		presets := []config.TrajectoryPreset{
			linearPreset(),
			{Evaluator: "arc", Duration: 1.3, Range: config.RangeConfig{Distance: 6, Height: 3}},
			{Evaluator: "sweep", Duration: 0.7, Looping: boolPtr(true), PingPong: boolPtr(true),
				Easing: "ease_in_out", Range: config.RangeConfig{Distance: 2, AngleDeg: 120}},
		}
		ids := make([]ecs.EntityID, 0, len(presets))
		for i, p := range presets {
			id, err := system.SpawnPreset("p", p, utils.DefaultBasis().OffsetBy(utils.Vec3{X: float64(i)}))
			if err != nil {
				t.Fatal(err)
			}
			ids = append(ids, id)
		}

		var out []utils.Vec3
		for range 90 {
			system.Update(1.0 / 60)
			for _, id := range ids {
				if pos, ok := ecs.GetComponent[*components.PositionComponent](em, id); ok {
					out = append(out, pos.Pos)
				}
			}
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("长度不同: %d / %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("第 %d 个位置不同: %+v / %+v", i, a[i], b[i])
		}
	}
}

func BenchmarkTrajectorySystemUpdate(b *testing.B) {
	em := ecs.NewEntityManager()
	system := NewTrajectorySystem(em)

	preset := config.TrajectoryPreset{
		Evaluator: "helix",
		Duration:  2,
		Looping:   boolPtr(true),
		Range:     config.RangeConfig{Distance: 10, Width: 1, AngleDeg: 720},
	}
	for range 500 {
		if _, err := system.SpawnPreset("helix", preset, utils.DefaultBasis()); err != nil {
			b.Fatal(err)
		}
	}

	for b.Loop() {
		system.Update(1.0 / 60)
	}
}
