package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/trajectory/pkg/components"
	"github.com/gonewx/trajectory/pkg/config"
	"github.com/gonewx/trajectory/pkg/ecs"
	"github.com/gonewx/trajectory/pkg/playback"
	"github.com/gonewx/trajectory/pkg/utils"
)

// ErrNoTrajectoryComponent 实体不存在或没有 TrajectoryComponent
var ErrNoTrajectoryComponent = errors.New("entity has no TrajectoryComponent")

// DefaultTrailPoints 默认尾迹长度（帧）
const DefaultTrailPoints = 48

// BoundaryHandler 边界事件回调（循环折回 / 非循环到达端点）
type BoundaryHandler func(id ecs.EntityID, traj *components.TrajectoryComponent)

// TrajectorySystem 推进所有程序化轨迹
//
// 每帧对每个轨迹实体：
//  1. 发射延迟未走满时只推进延迟计时器
//  2. State.Tick(dt) 一次
//  3. 用归一化时间求值世界坐标，写入 PositionComponent 和 TrailComponent
//  4. 处理边界事件：计数、回调、一次性轨迹完成后销毁或进入停留
type TrajectorySystem struct {
	entityManager *ecs.EntityManager

	// OnBoundary 可选的边界事件回调，在同一帧内同步调用
	OnBoundary BoundaryHandler

	// Verbose 输出逐帧日志
	Verbose bool
}

// NewTrajectorySystem 创建轨迹系统
func NewTrajectorySystem(em *ecs.EntityManager) *TrajectorySystem {
	return &TrajectorySystem{
		entityManager: em,
	}
}

// Update 推进所有拥有 TrajectoryComponent 的实体
//
// 参数：
//   - deltaTime: 本帧时长（秒）；实体按 ID 升序推进
func (s *TrajectorySystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.TrajectoryComponent](s.entityManager)

	for _, id := range entities {
		traj, ok := ecs.GetComponent[*components.TrajectoryComponent](s.entityManager, id)
		if !ok {
			continue
		}
		s.updateEntity(id, traj, deltaTime)
	}
}

func (s *TrajectorySystem) updateEntity(id ecs.EntityID, traj *components.TrajectoryComponent, deltaTime float64) {
	traj.EventThisFrame = false

	// 发射延迟：走满那一帧剩余的时间不计入轨迹
	if !traj.StartDelay.IsFull() {
		traj.StartDelay.TickAndCheckComplete(deltaTime)
		return
	}

	event, normalized := traj.State.Tick(deltaTime)
	traj.NormalizedTime = normalized
	traj.EventThisFrame = event

	s.writePosition(id, traj)

	if s.Verbose {
		log.Printf("[TrajectorySystem] Entity %d (%s): t=%.4f/%.4f norm=%.4f flags=%s",
			id, traj.Name, traj.State.CurrentTime(), traj.State.Duration(), normalized, traj.State.Flags)
	}

	if !event {
		return
	}

	traj.EventCount++
	if s.Verbose {
		log.Printf("[TrajectorySystem] Entity %d (%s): boundary event #%d", id, traj.Name, traj.EventCount)
	}
	if s.OnBoundary != nil {
		s.OnBoundary(id, traj)
	}

	if !traj.State.IsLooping() && traj.State.HasCompleted() {
		s.handleCompletion(id, traj)
	}
}

// writePosition 求值并写入位置与尾迹
func (s *TrajectorySystem) writePosition(id ecs.EntityID, traj *components.TrajectoryComponent) {
	if traj.Evaluator == nil {
		return
	}
	pos := traj.Evaluator.Evaluate(traj.Basis, traj.Range, traj.NormalizedTime)

	if posComp, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
		posComp.Pos = pos
	} else {
		s.entityManager.AddComponent(id, &components.PositionComponent{Pos: pos})
	}

	if trail, ok := ecs.GetComponent[*components.TrailComponent](s.entityManager, id); ok {
		pushTrail(trail, pos)
	}
}

func pushTrail(trail *components.TrailComponent, pos utils.Vec3) {
	if trail.MaxPoints <= 0 {
		return
	}
	if len(trail.Points) >= trail.MaxPoints {
		n := copy(trail.Points, trail.Points[len(trail.Points)-trail.MaxPoints+1:])
		trail.Points = trail.Points[:n]
	}
	trail.Points = append(trail.Points, pos)
}

// handleCompletion 一次性轨迹完成：销毁或进入停留
func (s *TrajectorySystem) handleCompletion(id ecs.EntityID, traj *components.TrajectoryComponent) {
	if !traj.DestroyOnComplete {
		return
	}
	if traj.Linger > 0 {
		if !ecs.HasComponent[*components.LingerComponent](s.entityManager, id) {
			s.entityManager.AddComponent(id, &components.LingerComponent{
				Timer: playback.Timer{Duration: traj.Linger},
			})
		}
		return
	}
	log.Printf("[TrajectorySystem] Entity %d (%s) completed, destroying", id, traj.Name)
	s.entityManager.DestroyEntity(id)
}

// ==================================================================
// 生成
// ==================================================================

// SpawnFromPreset 按全局配置中的预设名称生成轨迹实体
//
// 参数：
//   - name: 预设名称（需先调用 config.LoadTrajectoryConfig）
//   - basis: 发射坐标系
//
// 返回：
//   - ecs.EntityID: 新实体 ID
//   - error: 预设不存在或求值器无效
func (s *TrajectorySystem) SpawnFromPreset(name string, basis utils.CoordinateBasis) (ecs.EntityID, error) {
	return s.SpawnFromPresetScaled(name, basis, 1)
}

// SpawnFromPresetScaled 同 SpawnFromPreset，速度额外乘以 scale
func (s *TrajectorySystem) SpawnFromPresetScaled(name string, basis utils.CoordinateBasis, scale float64) (ecs.EntityID, error) {
	preset, found := config.GetPreset(name)
	if !found {
		return ecs.InvalidEntity, fmt.Errorf("%w: %q", config.ErrPresetNotFound, name)
	}
	return s.SpawnPresetScaled(name, preset, basis, scale)
}

// SpawnPreset 按给定预设生成轨迹实体，并立即写入初始位置
func (s *TrajectorySystem) SpawnPreset(name string, preset config.TrajectoryPreset, basis utils.CoordinateBasis) (ecs.EntityID, error) {
	return s.SpawnPresetScaled(name, preset, basis, 1)
}

// SpawnPresetScaled 按给定预设和额外速度倍率生成轨迹实体
//
// 参数：
//   - scale: 与预设速度相乘的带符号倍率；结果为负时实体从终点出发，为 0 时实体暂停
func (s *TrajectorySystem) SpawnPresetScaled(name string, preset config.TrajectoryPreset, basis utils.CoordinateBasis, scale float64) (ecs.EntityID, error) {
	evaluator, err := preset.BuildEvaluator()
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("spawn %q: %w", name, err)
	}

	traj := &components.TrajectoryComponent{
		Name:              name,
		Basis:             basis,
		Range:             preset.BuildRange(),
		Evaluator:         evaluator,
		State:             preset.NewStateScaled(scale),
		StartDelay:        playback.Timer{Duration: preset.StartDelay},
		DestroyOnComplete: preset.ShouldDestroyOnComplete(),
		Linger:            preset.Linger,
	}
	traj.NormalizedTime = traj.State.NormalizedProgress()

	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, traj)
	s.entityManager.AddComponent(id, &components.TrailComponent{MaxPoints: DefaultTrailPoints})
	s.writePosition(id, traj)

	if s.Verbose {
		log.Printf("[TrajectorySystem] Spawned entity %d from preset %q (evaluator=%s, duration=%.3f, speed=%.2f)",
			id, name, preset.Evaluator, preset.Duration, traj.State.Speed)
	}
	return id, nil
}

// ==================================================================
// 播放控制 API
// ==================================================================

// Trajectory 获取实体的轨迹组件
func (s *TrajectorySystem) Trajectory(entityID ecs.EntityID) (*components.TrajectoryComponent, error) {
	traj, ok := ecs.GetComponent[*components.TrajectoryComponent](s.entityManager, entityID)
	if !ok {
		return nil, fmt.Errorf("entity %d: %w", entityID, ErrNoTrajectoryComponent)
	}
	return traj, nil
}

// Play 开始或继续播放
func (s *TrajectorySystem) Play(entityID ecs.EntityID) error {
	traj, err := s.Trajectory(entityID)
	if err != nil {
		return err
	}
	traj.State.Play()
	ecs.RemoveComponent[*components.LingerComponent](s.entityManager, entityID)
	return nil
}

// Pause 暂停播放
func (s *TrajectorySystem) Pause(entityID ecs.EntityID) error {
	traj, err := s.Trajectory(entityID)
	if err != nil {
		return err
	}
	traj.State.Pause()
	return nil
}

// Stop 归零并暂停，位置回到起点
func (s *TrajectorySystem) Stop(entityID ecs.EntityID) error {
	traj, err := s.Trajectory(entityID)
	if err != nil {
		return err
	}
	traj.State.Stop()
	s.resync(entityID, traj)
	return nil
}

// Rewind 归零并保留播放状态；停留中的实体被取消停留
func (s *TrajectorySystem) Rewind(entityID ecs.EntityID) error {
	traj, err := s.Trajectory(entityID)
	if err != nil {
		return err
	}
	traj.State.Rewind()
	ecs.RemoveComponent[*components.LingerComponent](s.entityManager, entityID)
	s.resync(entityID, traj)
	return nil
}

// SetTimeScale 设置带符号速度倍率
func (s *TrajectorySystem) SetTimeScale(entityID ecs.EntityID, scale float64) error {
	traj, err := s.Trajectory(entityID)
	if err != nil {
		return err
	}
	traj.State.SetTimeScale(scale)
	return nil
}

// SeekNormalized 按归一化进度跳转，不触发边界事件
func (s *TrajectorySystem) SeekNormalized(entityID ecs.EntityID, t float64) error {
	traj, err := s.Trajectory(entityID)
	if err != nil {
		return err
	}
	traj.State.SeekNormalized(t)
	s.resync(entityID, traj)
	return nil
}

// resync 控制操作修改时间后立即刷新位置，清空尾迹
func (s *TrajectorySystem) resync(entityID ecs.EntityID, traj *components.TrajectoryComponent) {
	traj.NormalizedTime = traj.State.NormalizedProgress()
	traj.EventThisFrame = false
	if trail, ok := ecs.GetComponent[*components.TrailComponent](s.entityManager, entityID); ok {
		trail.Points = trail.Points[:0]
	}
	s.writePosition(entityID, traj)
}
