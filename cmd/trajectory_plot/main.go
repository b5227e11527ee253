// trajectory_plot - 终端轨迹绘图工具
// 在终端中用字符绘制轨迹预设的俯视图或侧视图，边界事件时播放提示音
//
// 用法：
//
//	go run ./cmd/trajectory_plot --preset cabbage_lob --view side
//
// 按键：Tab/n 下一个预设  p 上一个  Space 播放/暂停  r 倒回  v 反向  +/- 调速  q/Esc 退出
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/trajectory/pkg/components"
	"github.com/gonewx/trajectory/pkg/config"
	"github.com/gonewx/trajectory/pkg/ecs"
	"github.com/gonewx/trajectory/pkg/systems"
	"github.com/gonewx/trajectory/pkg/utils"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	frameDuration = time.Second / 60
	cellsPerUnit  = 3.0 // 横向每单位字符数；纵向减半以补偿字符宽高比
)

var (
	configPath = flag.String("config", config.DefaultTrajectoryConfigPath, "trajectory preset file")
	presetFlag = flag.String("preset", "", "initial preset")
	viewFlag   = flag.String("view", "top", "projection: top (x/z) or side (z/y)")
	muteFlag   = flag.Bool("mute", false, "disable boundary click")
	volumeFlag = flag.Float64("volume", 0.5, "click volume 0.0 ~ 1.0")
)

var (
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAxis   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTrail  = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleMarker = tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	styleFlash  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleOrigin = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

type plotter struct {
	screen        tcell.Screen
	width, height int

	entityManager    *ecs.EntityManager
	trajectorySystem *systems.TrajectorySystem
	lifetimeSystem   *systems.LifetimeSystem

	presets   []string
	presetIdx int
	current   ecs.EntityID
	side      bool
	flash     int // 剩余高亮帧数

	// Audio
	audioInit  bool
	sampleRate beep.SampleRate
	volume     float64
}

func newPlotter(screen tcell.Screen) (*plotter, error) {
	em := ecs.NewEntityManager()
	p := &plotter{
		screen:           screen,
		entityManager:    em,
		trajectorySystem: systems.NewTrajectorySystem(em),
		lifetimeSystem:   systems.NewLifetimeSystem(em),
		presets:          config.TrajectoryConfig.PresetNames(),
		side:             *viewFlag == "side",
		sampleRate:       beep.SampleRate(44100),
		volume:           *volumeFlag,
	}
	p.width, p.height = screen.Size()
	p.trajectorySystem.OnBoundary = p.onBoundary

	if idx := slices.Index(p.presets, *presetFlag); idx >= 0 {
		p.presetIdx = idx
	}

	if !*muteFlag {
		if err := p.initAudio(); err != nil {
			// 没有声音也能运行
			log.Printf("[TrajectoryPlot] Audio initialization failed: %v", err)
		}
	}

	if err := p.spawn(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *plotter) initAudio() error {
	err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10))
	if err == nil {
		p.audioInit = true
	}
	return err
}

func (p *plotter) playClick() {
	if !p.audioInit || p.volume <= 0 {
		return
	}

	sine, err := generators.SineTone(p.sampleRate, 880)
	if err != nil {
		return
	}
	click := beep.Take(p.sampleRate.N(40*time.Millisecond), sine)
	speaker.Play(volumeStreamer(click, p.volume))
}

// volumeStreamer 线性音量转换为以 2 为底的对数音量
func volumeStreamer(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1)), Silent: false}
}

func (p *plotter) onBoundary(id ecs.EntityID, traj *components.TrajectoryComponent) {
	if id != p.current {
		return
	}
	p.flash = 8
	p.playClick()
}

func (p *plotter) spawn() error {
	if p.current != ecs.InvalidEntity {
		p.entityManager.DestroyEntity(p.current)
		p.entityManager.RemoveMarkedEntities()
	}
	id, err := p.trajectorySystem.SpawnFromPreset(p.presets[p.presetIdx], utils.DefaultBasis())
	if err != nil {
		return err
	}
	p.current = id
	return nil
}

// project 世界坐标到字符格
func (p *plotter) project(v utils.Vec3) (int, int) {
	if p.side {
		// Z 向右，Y 向上，原点在左下
		return 2 + int(v.Z*cellsPerUnit+0.5), p.height - 3 - int(v.Y*cellsPerUnit/2+0.5)
	}
	// X 向右，Z 向上，原点在底部中央
	return p.width/2 + int(v.X*cellsPerUnit+0.5), p.height - 3 - int(v.Z*cellsPerUnit/2+0.5)
}

func (p *plotter) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 1 || x >= p.width || y >= p.height-1 {
		return
	}
	p.screen.SetContent(x, y, r, nil, style)
}

func (p *plotter) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= p.width {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (p *plotter) draw() {
	p.screen.Clear()

	// 坐标轴
	ox, oy := p.project(utils.Vec3{})
	for x := 0; x < p.width; x++ {
		p.set(x, oy, '─', styleAxis)
	}
	for y := 1; y < p.height-1; y++ {
		p.set(ox, y, '│', styleAxis)
	}
	p.set(ox, oy, 'o', styleOrigin)

	for _, id := range ecs.GetEntitiesWith1[*components.PositionComponent](p.entityManager) {
		if trail, ok := ecs.GetComponent[*components.TrailComponent](p.entityManager, id); ok {
			for _, pt := range trail.Points {
				x, y := p.project(pt)
				p.set(x, y, '·', styleTrail)
			}
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](p.entityManager, id)
		style := styleMarker
		if id == p.current && p.flash > 0 {
			style = styleFlash
		}
		x, y := p.project(pos.Pos)
		p.set(x, y, '●', style)
	}

	if traj, err := p.trajectorySystem.Trajectory(p.current); err == nil {
		s := &traj.State
		view := "top x/z"
		if p.side {
			view = "side z/y"
		}
		p.drawText(0, 0, fmt.Sprintf(" %s [%d/%d]  %s  t=%.2f/%.2f  %5.1f%%  speed=%+.2f  %s  events=%d",
			traj.Name, p.presetIdx+1, len(p.presets), view,
			s.CurrentTime(), s.Duration(), s.Progress(), s.Speed, s.Flags, traj.EventCount), styleHeader)
	}
	p.drawText(0, p.height-1, " Tab/n/p preset  Space play/pause  r rewind  v reverse  +/- speed  q quit", styleAxis)

	p.screen.Show()
}

// handleInput 返回 false 表示退出
func (p *plotter) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyTab || ev.Rune() == 'n':
			p.presetIdx = (p.presetIdx + 1) % len(p.presets)
			p.respawn()
		case ev.Rune() == 'p':
			p.presetIdx = (p.presetIdx + len(p.presets) - 1) % len(p.presets)
			p.respawn()
		case ev.Rune() == ' ':
			p.togglePlay()
		case ev.Rune() == 'r':
			p.report(p.trajectorySystem.Rewind(p.current))
		case ev.Rune() == 'v':
			if traj, err := p.trajectorySystem.Trajectory(p.current); err == nil {
				traj.State.SetTimeScale(-traj.State.Speed)
			}
		case ev.Rune() == '+' || ev.Rune() == '=':
			p.scaleSpeed(1.25)
		case ev.Rune() == '-':
			p.scaleSpeed(0.8)
		}

	case *tcell.EventResize:
		p.width, p.height = p.screen.Size()
		p.screen.Sync()
	}
	return true
}

func (p *plotter) togglePlay() {
	traj, err := p.trajectorySystem.Trajectory(p.current)
	if err != nil {
		p.report(err)
		return
	}
	if traj.State.IsPlaying() {
		p.report(p.trajectorySystem.Pause(p.current))
		return
	}
	p.report(p.trajectorySystem.Play(p.current))
}

func (p *plotter) scaleSpeed(factor float64) {
	if traj, err := p.trajectorySystem.Trajectory(p.current); err == nil {
		p.report(p.trajectorySystem.SetTimeScale(p.current, traj.State.Speed*factor))
	}
}

func (p *plotter) respawn() {
	p.report(p.spawn())
}

func (p *plotter) report(err error) {
	if err != nil {
		log.Printf("[TrajectoryPlot] %v", err)
	}
}

func (p *plotter) step() {
	dt := frameDuration.Seconds()
	p.trajectorySystem.Update(dt)
	p.lifetimeSystem.Update(dt)
	p.entityManager.RemoveMarkedEntities()
	if p.flash > 0 {
		p.flash--
	}

	// 一次性轨迹结束后重新发射
	if !p.entityManager.EntityExists(p.current) {
		p.current = ecs.InvalidEntity
		p.respawn()
	}
}

// pollEvents 把终端事件转发到 events，屏幕关闭（PollEvent 返回 nil）或 done 关闭后退出
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (p *plotter) run() {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(p.screen, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !p.handleInput(ev) {
				return
			}
		case <-ticker.C:
			p.step()
			p.draw()
		}
	}
}

func (p *plotter) cleanup() {
	if p.audioInit {
		speaker.Close()
	}
	p.screen.Fini()
}

func main() {
	flag.Parse()

	if _, err := config.LoadTrajectoryConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load presets: %v\n", err)
		os.Exit(1)
	}

	// 终端被占用，日志写入文件
	if f, err := os.CreateTemp("", "trajectory_plot_*.log"); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	p, err := newPlotter(screen)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer p.cleanup()

	p.run()
}
