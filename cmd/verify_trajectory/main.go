// verify_trajectory - 轨迹播放无头验证程序
// 以固定步长推进预设，逐帧打印时间 / 进度 / 位置 / 事件，并做一组一致性检查
//
// 用法：
//
//	go run ./cmd/verify_trajectory --preset cabbage_lob --frames 120 --every 10
//	go run ./cmd/verify_trajectory            # 验证全部预设
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/gonewx/trajectory/pkg/components"
	"github.com/gonewx/trajectory/pkg/config"
	"github.com/gonewx/trajectory/pkg/ecs"
	"github.com/gonewx/trajectory/pkg/systems"
	"github.com/gonewx/trajectory/pkg/utils"
)

var (
	configPath = flag.String("config", config.DefaultTrajectoryConfigPath, "trajectory preset file")
	presetFlag = flag.String("preset", "", "preset to verify (default: all)")
	frames     = flag.Int("frames", 180, "frames to simulate")
	fps        = flag.Float64("fps", 60, "simulation frame rate")
	every      = flag.Int("every", 15, "print every N frames (0 = only events)")
	verbose    = flag.Bool("verbose", false, "log every trajectory tick")
)

// ========== 验证报告 ==========

type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
	status := "✗ FAIL"
	if passed {
		status = "✓ PASS"
	}
	log.Printf("%s | %-36s | %s", status, testName, message)
}

// ========== 模拟 ==========

type frameSample struct {
	frame int
	time  float64
	norm  float64
	pos   utils.Vec3
	event bool
	alive bool
}

// simulate 在独立的 EntityManager 中推进一个预设
func simulate(name string, preset config.TrajectoryPreset, frameRate float64, n int) ([]frameSample, error) {
	em := ecs.NewEntityManager()
	ts := systems.NewTrajectorySystem(em)
	ls := systems.NewLifetimeSystem(em)
	ts.Verbose = *verbose

	id, err := ts.SpawnPreset(name, preset, utils.DefaultBasis())
	if err != nil {
		return nil, err
	}

	dt := 1 / frameRate
	samples := make([]frameSample, 0, n)
	for i := 1; i <= n; i++ {
		ts.Update(dt)
		ls.Update(dt)

		sample := frameSample{frame: i, alive: true}
		if traj, err := ts.Trajectory(id); err == nil {
			sample.time = traj.State.CurrentTime()
			sample.norm = traj.NormalizedTime
			sample.event = traj.EventThisFrame
		}
		if pos, ok := ecs.GetComponent[*components.PositionComponent](em, id); ok {
			sample.pos = pos.Pos
		}

		em.RemoveMarkedEntities()
		sample.alive = em.EntityExists(id)
		samples = append(samples, sample)
		if !sample.alive {
			break
		}
	}
	return samples, nil
}

func printSamples(name string, samples []frameSample) {
	fmt.Printf("\n=== %s ===\n", name)
	fmt.Printf("%6s %9s %7s %28s %s\n", "frame", "time", "norm", "position", "")
	for _, s := range samples {
		if !s.event && (*every <= 0 || s.frame%*every != 0) && s.alive {
			continue
		}
		mark := ""
		if s.event {
			mark = "<- event"
		}
		if !s.alive {
			mark += " (destroyed)"
		}
		fmt.Printf("%6d %9.4f %7.4f  (%7.3f, %7.3f, %7.3f) %s\n",
			s.frame, s.time, s.norm, s.pos.X, s.pos.Y, s.pos.Z, mark)
	}
}

// ========== 验证 ==========

// validateRange 归一化时间始终在 [0, 1]
func validateRange(name string, samples []frameSample) {
	for _, s := range samples {
		if s.norm < 0 || s.norm > 1 || math.IsNaN(s.norm) {
			addReport(name+": 归一化范围", false, fmt.Sprintf("frame %d norm=%v", s.frame, s.norm))
			return
		}
	}
	addReport(name+": 归一化范围", true, fmt.Sprintf("%d frames", len(samples)))
}

// validateOneShot 非循环轨迹恰好触发一次事件
func validateOneShot(name string, preset config.TrajectoryPreset, samples []frameSample) {
	if preset.IsLooping() {
		return
	}
	events := 0
	for _, s := range samples {
		if s.event {
			events++
		}
	}
	addReport(name+": 一次性事件", events <= 1, fmt.Sprintf("%d events", events))
}

// validateFrameRate 30 / 60 FPS 在相同时刻的位置一致（仅线性推进的非循环轨迹）
func validateFrameRate(name string, preset config.TrajectoryPreset) {
	if preset.IsLooping() || preset.StartDelay > 0 {
		return
	}

	a, errA := simulate(name, preset, 30, 15)
	b, errB := simulate(name, preset, 60, 30)
	if errA != nil || errB != nil || len(a) == 0 || len(b) < 2*len(a) {
		// 轨迹在半秒内结束，没有可比的帧
		return
	}

	worst := 0.0
	for i := range a {
		worst = math.Max(worst, a[i].pos.Sub(b[2*i+1].pos).Length())
	}
	addReport(name+": 帧率无关", worst < 1e-9, fmt.Sprintf("max diff %.2e", worst))
}

func verifyPreset(name string, preset config.TrajectoryPreset) {
	samples, err := simulate(name, preset, *fps, *frames)
	if err != nil {
		addReport(name+": 生成", false, err.Error())
		return
	}
	printSamples(name, samples)
	validateRange(name, samples)
	validateOneShot(name, preset, samples)
	validateFrameRate(name, preset)
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg, err := config.LoadTrajectoryConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load presets: %v", err)
	}

	names := cfg.PresetNames()
	if *presetFlag != "" {
		names = []string{*presetFlag}
	}

	for _, name := range names {
		preset, err := cfg.Preset(name)
		if err != nil {
			addReport(name, false, err.Error())
			continue
		}
		verifyPreset(name, preset)
	}

	failed := 0
	for _, r := range validationReports {
		if !r.Passed {
			failed++
		}
	}
	fmt.Printf("\n%d checks, %d failed\n", len(validationReports), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
