// main.go - 轨迹查看器
// 以 60 TPS 推进 TrajectorySystem，绘制俯视图和侧视图
//
// 按键：
//
//	Space 播放/暂停    R 倒回    S 停止    Enter 重新发射
//	←/→ 切换预设       ↑/↓ 调整速度    V 反向
//	Q/E 旋转发射方向   T 尾迹    L 侧视图    M 提示音
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/gonewx/trajectory/pkg/components"
	"github.com/gonewx/trajectory/pkg/config"
	"github.com/gonewx/trajectory/pkg/ecs"
	"github.com/gonewx/trajectory/pkg/embedded"
	"github.com/gonewx/trajectory/pkg/game"
	"github.com/gonewx/trajectory/pkg/playback"
	"github.com/gonewx/trajectory/pkg/systems"
	"github.com/gonewx/trajectory/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"
)

const (
	screenWidth  = 960
	screenHeight = 540

	pixelsPerUnit = 36.0
	yawStep       = math.Pi / 12
	speedStep     = 0.25
)

var (
	configPath = flag.String("config", config.DefaultTrajectoryConfigPath, "trajectory preset file")
	presetFlag = flag.String("preset", "", "initial preset (default: last used)")
	verbose    = flag.Bool("verbose", false, "log every trajectory tick")
)

var (
	colorBackground = color.RGBA{R: 24, G: 26, B: 33, A: 255}
	colorGrid       = color.RGBA{R: 52, G: 56, B: 68, A: 255}
	colorAxis       = color.RGBA{R: 90, G: 96, B: 112, A: 255}
	colorTrail      = color.RGBA{R: 86, G: 170, B: 255, A: 255}
	colorMarker     = color.RGBA{R: 255, G: 214, B: 90, A: 255}
	colorFlash      = color.RGBA{R: 255, G: 90, B: 90, A: 255}
	colorOrigin     = color.RGBA{R: 120, G: 220, B: 140, A: 255}
)

// Viewer 实现 ebiten.Game
type Viewer struct {
	entityManager    *ecs.EntityManager
	trajectorySystem *systems.TrajectorySystem
	lifetimeSystem   *systems.LifetimeSystem
	settingsManager  *game.SettingsManager
	audioManager     *game.AudioManager

	presets    []string
	presetIdx  int
	current    ecs.EntityID
	yaw        float64
	flash      playback.Timer
	spawnCount int
}

// NewViewer 创建查看器并发射初始预设
func NewViewer(sm *game.SettingsManager, am *game.AudioManager, initial string) (*Viewer, error) {
	em := ecs.NewEntityManager()
	v := &Viewer{
		entityManager:    em,
		trajectorySystem: systems.NewTrajectorySystem(em),
		lifetimeSystem:   systems.NewLifetimeSystem(em),
		settingsManager:  sm,
		audioManager:     am,
		presets:          config.TrajectoryConfig.PresetNames(),
		flash:            playback.Timer{Duration: 0.15},
	}
	v.flash.Current = v.flash.Duration
	v.trajectorySystem.Verbose = *verbose
	v.trajectorySystem.OnBoundary = v.onBoundary

	if idx := slices.Index(v.presets, initial); idx >= 0 {
		v.presetIdx = idx
	}
	if err := v.spawn(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewer) presetName() string {
	return v.presets[v.presetIdx]
}

func (v *Viewer) basis() utils.CoordinateBasis {
	return utils.BasisFromRotation(utils.Vec3{}, utils.QuatFromEuler(v.yaw, 0, 0))
}

// spawn 销毁当前实体并按当前预设重新发射
func (v *Viewer) spawn() error {
	if v.current != ecs.InvalidEntity {
		v.entityManager.DestroyEntity(v.current)
		v.entityManager.RemoveMarkedEntities()
	}

	name := v.presetName()
	scale := v.settingsManager.GetSettings().TimeScale
	id, err := v.trajectorySystem.SpawnFromPresetScaled(name, v.basis(), scale)
	if err != nil {
		return fmt.Errorf("spawn preset %q: %w", name, err)
	}
	v.current = id
	v.spawnCount++

	v.settingsManager.SetLastPreset(name)
	return nil
}

// applyTimeScale 实体速度 = 预设速度 × 查看器倍率
func (v *Viewer) applyTimeScale() {
	speed, err := config.PresetSpeed(v.presetName())
	if err != nil {
		log.Printf("[Viewer] Warning: %v, using speed %.2f", err, speed)
	}
	scale := speed * v.settingsManager.GetSettings().TimeScale
	if err := v.trajectorySystem.SetTimeScale(v.current, scale); err != nil {
		log.Printf("[Viewer] Warning: %v", err)
	}
}

func (v *Viewer) onBoundary(id ecs.EntityID, traj *components.TrajectoryComponent) {
	if id != v.current {
		return
	}
	v.flash.Reset()
	v.audioManager.PlayClick()
}

// Update 处理输入并推进一个固定步长
func (v *Viewer) Update() error {
	if err := v.handleInput(); err != nil {
		return err
	}

	dt := 1.0 / float64(ebiten.TPS())
	v.trajectorySystem.Update(dt)
	v.lifetimeSystem.Update(dt)
	v.entityManager.RemoveMarkedEntities()
	v.flash.TickAndCheckComplete(dt)

	// 一次性轨迹被销毁后自动重新发射
	if !v.entityManager.EntityExists(v.current) {
		v.current = ecs.InvalidEntity
		return v.spawn()
	}
	return nil
}

func (v *Viewer) handleInput() error {
	sm := v.settingsManager

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		traj, err := v.trajectorySystem.Trajectory(v.current)
		if err != nil {
			return err
		}
		if traj.State.IsPlaying() {
			return v.trajectorySystem.Pause(v.current)
		}
		return v.trajectorySystem.Play(v.current)

	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return v.trajectorySystem.Rewind(v.current)

	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		return v.trajectorySystem.Stop(v.current)

	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		return v.spawn()

	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.presetIdx = (v.presetIdx + 1) % len(v.presets)
		return v.spawn()

	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.presetIdx = (v.presetIdx + len(v.presets) - 1) % len(v.presets)
		return v.spawn()

	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		sm.StepTimeScale(speedStep)
		v.applyTimeScale()

	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		sm.StepTimeScale(-speedStep)
		v.applyTimeScale()

	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		sm.SetTimeScale(-sm.GetSettings().TimeScale)
		v.applyTimeScale()

	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		v.yaw -= yawStep
		return v.spawn()

	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		v.yaw += yawStep
		return v.spawn()

	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		sm.ToggleTrail()

	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		sm.ToggleSideView()

	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		sm.SetSoundEnabled(!sm.GetSettings().SoundEnabled)
	}
	return nil
}

// ========== 绘制 ==========

// projection 把世界坐标投影到屏幕
type projection func(p utils.Vec3) (float32, float32)

// topDown 俯视图：X 向右，Z 向上
func topDown(cx, bottom float64) projection {
	return func(p utils.Vec3) (float32, float32) {
		return float32(cx + p.X*pixelsPerUnit), float32(bottom - p.Z*pixelsPerUnit)
	}
}

// sideView 侧视图：Z 向右，Y 向上
func sideView(left, bottom float64) projection {
	return func(p utils.Vec3) (float32, float32) {
		return float32(left + p.Z*pixelsPerUnit), float32(bottom - p.Y*pixelsPerUnit)
	}
}

// viewPanel 屏幕上的一个视图区域
type viewPanel struct {
	title string
	proj  projection
	x, w  float64
}

// Draw 绘制两个视图和状态栏
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	settings := v.settingsManager.GetSettings()

	half := float64(screenWidth) / 2
	views := []viewPanel{
		{"top (x/z)", topDown(half/2, screenHeight-40), 0, half},
	}
	if settings.ShowSideView {
		views = append(views, viewPanel{"side (z/y)", sideView(half+40, screenHeight/2+120), half, half})
	}

	for _, view := range views {
		drawGrid(screen, view.x, view.w)
		ebitenutil.DebugPrintAt(screen, view.title, int(view.x)+8, 24)
		v.drawTrajectories(screen, view.proj, settings.ShowTrail)
	}

	v.drawStatus(screen)
}

func drawGrid(screen *ebiten.Image, x, w float64) {
	x0, x1 := float32(x), float32(x+w)
	for gx := x0; gx <= x1; gx += pixelsPerUnit {
		vector.StrokeLine(screen, gx, 0, gx, screenHeight, 1, colorGrid, false)
	}
	for gy := float32(0); gy <= screenHeight; gy += pixelsPerUnit {
		vector.StrokeLine(screen, x0, gy, x1, gy, 1, colorGrid, false)
	}
	vector.StrokeLine(screen, x1, 0, x1, screenHeight, 1, colorAxis, false)
}

func (v *Viewer) drawTrajectories(screen *ebiten.Image, proj projection, showTrail bool) {
	ids := ecs.GetEntitiesWith2[*components.TrajectoryComponent, *components.PositionComponent](v.entityManager)
	for _, id := range ids {
		traj, _ := ecs.GetComponent[*components.TrajectoryComponent](v.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](v.entityManager, id)

		ox, oy := proj(traj.Basis.Origin)
		vector.DrawFilledRect(screen, ox-3, oy-3, 6, 6, colorOrigin, false)

		if showTrail {
			if trail, ok := ecs.GetComponent[*components.TrailComponent](v.entityManager, id); ok {
				for i := 1; i < len(trail.Points); i++ {
					x0, y0 := proj(trail.Points[i-1])
					x1, y1 := proj(trail.Points[i])
					vector.StrokeLine(screen, x0, y0, x1, y1, 2, colorTrail, true)
				}
			}
		}

		clr := colorMarker
		if id == v.current && !v.flash.IsFull() {
			clr = colorFlash
		}
		px, py := proj(pos.Pos)
		vector.DrawFilledRect(screen, px-5, py-5, 10, 10, clr, true)
	}
}

func (v *Viewer) drawStatus(screen *ebiten.Image) {
	traj, err := v.trajectorySystem.Trajectory(v.current)
	if err != nil {
		return
	}
	s := &traj.State
	settings := v.settingsManager.GetSettings()

	msg := fmt.Sprintf("preset: %s [%d/%d]  evaluator: %s\n"+
		"time: %.3f / %.3f  progress: %5.1f%%  speed: %+.2f (x%.2f)\n"+
		"flags: %s  events: %d  spawns: %d  yaw: %.0f°  sound: %v",
		traj.Name, v.presetIdx+1, len(v.presets), describeEvaluator(traj),
		s.CurrentTime(), s.Duration(), s.Progress(), s.Speed, settings.TimeScale,
		s.Flags, traj.EventCount, v.spawnCount, v.yaw*180/math.Pi, settings.SoundEnabled)
	ebitenutil.DebugPrintAt(screen, msg, 8, screenHeight-48)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %.0f", ebiten.ActualTPS()))
}

func describeEvaluator(traj *components.TrajectoryComponent) string {
	if preset, ok := config.GetPreset(traj.Name); ok {
		if preset.Easing != "" {
			return preset.Evaluator + "+" + preset.Easing
		}
		return preset.Evaluator
	}
	return "?"
}

// Layout 返回逻辑屏幕尺寸
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()

	embedded.Init(dataFS)
	if _, err := config.LoadTrajectoryConfig(*configPath); err != nil {
		log.Fatalf("Failed to load trajectory presets: %v", err)
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: "trajectory_viewer"})
	if err != nil {
		log.Printf("[Viewer] Warning: settings persistence disabled: %v", err)
		gdataManager = nil
	}
	settingsManager := game.NewSettingsManager(gdataManager)
	audioManager := game.NewAudioManager(audio.NewContext(game.ClickSampleRate), settingsManager)

	initial := *presetFlag
	if initial == "" {
		initial = settingsManager.GetSettings().LastPreset
	}

	viewer, err := NewViewer(settingsManager, audioManager, initial)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Trajectory Viewer")

	runErr := ebiten.RunGame(viewer)
	if err := settingsManager.Save(); err != nil {
		log.Printf("[Viewer] Warning: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
