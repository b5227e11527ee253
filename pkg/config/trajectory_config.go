package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/gonewx/trajectory/pkg/embedded"
	"github.com/gonewx/trajectory/pkg/playback"
	"github.com/gonewx/trajectory/pkg/trajectory"
	"github.com/gonewx/trajectory/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultTrajectoryConfigPath 内置预设文件路径
const DefaultTrajectoryConfigPath = "data/trajectory_presets.yaml"

var (
	// ErrInvalidPreset 预设字段无效
	ErrInvalidPreset = errors.New("invalid trajectory preset")
	// ErrPresetNotFound 请求的预设不存在
	ErrPresetNotFound = errors.New("trajectory preset not found")
)

// TrajectoryConfigFile 轨迹预设配置文件结构
type TrajectoryConfigFile struct {
	Version string                      `yaml:"version"`
	Presets map[string]TrajectoryPreset `yaml:"presets"`
}

// TrajectoryPreset 单条轨迹预设
type TrajectoryPreset struct {
	Description       string      `yaml:"description"`         // 描述
	Evaluator         string      `yaml:"evaluator"`           // 求值器名称：linear, arc, sweep, orbit, homing, helix
	Duration          float64     `yaml:"duration"`            // 时长（秒）
	Speed             *float64    `yaml:"speed"`               // 速度倍率，nil 表示 1
	Looping           *bool       `yaml:"looping"`             // 是否循环，nil 表示 false
	PingPong          *bool       `yaml:"ping_pong"`           // 是否乒乓往返，nil 表示 false
	Easing            string      `yaml:"easing"`              // 缓动名称，空表示 linear
	StartDelay        float64     `yaml:"start_delay"`         // 发射延迟（秒）
	DestroyOnComplete *bool       `yaml:"destroy_on_complete"` // 完成后销毁，nil 表示非循环时 true
	Linger            float64     `yaml:"linger"`              // 完成后停留（秒）
	Range             RangeConfig `yaml:"range"`               // 尺寸参数
}

// RangeConfig 轨迹尺寸参数（配置文件形式，角度使用度）
type RangeConfig struct {
	Distance float64     `yaml:"distance"`
	Height   float64     `yaml:"height"`
	Width    float64     `yaml:"width"`
	AngleDeg float64     `yaml:"angle_deg"`
	Target   *[3]float64 `yaml:"target"` // 可选：世界坐标目标点 [x, y, z]
}

// TrajectoryConfig 是全局的轨迹预设配置实例
var TrajectoryConfig *TrajectoryConfigFile

// ParseTrajectoryConfig 解析并验证 YAML 预设内容
func ParseTrajectoryConfig(data []byte) (*TrajectoryConfigFile, error) {
	cfg := &TrajectoryConfigFile{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse trajectory config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTrajectoryConfig 加载轨迹预设配置文件并保存到全局变量
//
// 参数：
//   - path: 配置文件路径；以 "data/" 开头时优先读取嵌入资源
//
// 返回：
//   - *TrajectoryConfigFile: 解析后的配置
//   - error: 读取、解析或验证失败
func LoadTrajectoryConfig(path string) (*TrajectoryConfigFile, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		log.Printf("[TrajectoryConfig] Warning: Failed to load config file '%s': %v", path, err)
		return nil, err
	}

	cfg, err := ParseTrajectoryConfig(data)
	if err != nil {
		log.Printf("[TrajectoryConfig] Error: Invalid config file '%s': %v", path, err)
		return nil, err
	}

	if cfg.Version == "" {
		log.Printf("[TrajectoryConfig] Warning: Config file has no version field")
	}

	TrajectoryConfig = cfg
	log.Printf("[TrajectoryConfig] Loaded trajectory presets (version=%s, presets=%d)",
		cfg.Version, len(cfg.Presets))

	return cfg, nil
}

// Validate 检查所有预设；返回的错误合并了全部问题，均包装 ErrInvalidPreset
func (c *TrajectoryConfigFile) Validate() error {
	if len(c.Presets) == 0 {
		return fmt.Errorf("%w: config has no presets", ErrInvalidPreset)
	}

	var errs []error
	for _, name := range c.PresetNames() {
		if err := c.Presets[name].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// PresetNames 返回所有预设名称（按字母排序）
func (c *TrajectoryConfigFile) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset 按名称查找预设
func (c *TrajectoryConfigFile) Preset(name string) (TrajectoryPreset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return TrajectoryPreset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return p, nil
}

// GetPreset 从全局配置中查询预设
//
// 返回：
//   - preset: 预设
//   - found: 全局配置已加载且包含该预设
func GetPreset(name string) (preset TrajectoryPreset, found bool) {
	if TrajectoryConfig == nil {
		return TrajectoryPreset{}, false
	}
	preset, found = TrajectoryConfig.Presets[name]
	return preset, found
}

// PresetSpeed 全局配置中预设的速度倍率
func PresetSpeed(name string) (float64, error) {
	preset, found := GetPreset(name)
	if !found {
		return 1, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return preset.SpeedOrDefault(), nil
}

// Validate 检查单个预设
//
// 退化时长（<= 0）不会被拒绝：播放核心把它视为"已完成"。
// 只拒绝会让求值无法进行的字段。
func (p TrajectoryPreset) Validate() error {
	var errs []error

	if _, err := trajectory.Lookup(p.Evaluator); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidPreset, err))
	}
	if _, ok := utils.EasingByName(p.Easing); !ok {
		errs = append(errs, fmt.Errorf("%w: unknown easing %q", ErrInvalidPreset, p.Easing))
	}
	if math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) {
		errs = append(errs, fmt.Errorf("%w: duration must be finite", ErrInvalidPreset))
	}
	if p.StartDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: start_delay %v < 0", ErrInvalidPreset, p.StartDelay))
	}
	if p.Linger < 0 {
		errs = append(errs, fmt.Errorf("%w: linger %v < 0", ErrInvalidPreset, p.Linger))
	}
	if p.Speed != nil && (math.IsNaN(*p.Speed) || math.IsInf(*p.Speed, 0)) {
		errs = append(errs, fmt.Errorf("%w: speed must be finite", ErrInvalidPreset))
	}

	return errors.Join(errs...)
}

// SpeedOrDefault 速度倍率，未配置时为 1
func (p TrajectoryPreset) SpeedOrDefault() float64 {
	if p.Speed == nil {
		return 1
	}
	return *p.Speed
}

// IsLooping 是否循环
func (p TrajectoryPreset) IsLooping() bool {
	return p.Looping != nil && *p.Looping
}

// IsPingPong 是否乒乓
func (p TrajectoryPreset) IsPingPong() bool {
	return p.PingPong != nil && *p.PingPong
}

// ShouldDestroyOnComplete 完成后是否销毁
// 未配置时：非循环轨迹默认销毁，循环轨迹永远不会完成
func (p TrajectoryPreset) ShouldDestroyOnComplete() bool {
	if p.DestroyOnComplete != nil {
		return *p.DestroyOnComplete
	}
	return !p.IsLooping()
}

// NewState 按预设创建播放状态（正在播放）
func (p TrajectoryPreset) NewState() playback.State {
	return p.NewStateScaled(1)
}

// NewStateScaled 按预设创建播放状态，速度 = 预设速度 × scale
//
// 参数：
//   - scale: 额外的带符号速度倍率（例如查看器的全局倍率）
//
// 返回：
//   - playback.State: 反向时从终点出发；速度为 0 时处于暂停状态
func (p TrajectoryPreset) NewStateScaled(scale float64) playback.State {
	s := playback.NewState(p.Duration)
	s.SetTimeScale(p.SpeedOrDefault() * scale)
	s.SetLooping(p.IsLooping())
	s.SetPingPong(p.IsPingPong())
	switch {
	case s.Speed < 0:
		// 反向播放从终点出发
		s.SetTime(p.Duration)
	case s.Speed == 0:
		// 零速度的一次性轨迹第一帧就会停在起点并完成
		s.Pause()
	}
	return s
}

// BuildRange 把配置形式的尺寸参数转换为求值器参数
func (p TrajectoryPreset) BuildRange() trajectory.Range {
	rng := trajectory.Range{
		Distance: p.Range.Distance,
		Height:   p.Range.Height,
		Width:    p.Range.Width,
		Angle:    p.Range.AngleDeg * math.Pi / 180,
	}
	if p.Range.Target != nil {
		t := *p.Range.Target
		rng.Target = utils.Vec3{X: t[0], Y: t[1], Z: t[2]}
		rng.HasTarget = true
	}
	return rng
}

// BuildEvaluator 查找求值器并按配置施加缓动
func (p TrajectoryPreset) BuildEvaluator() (trajectory.Evaluator, error) {
	e, err := trajectory.Lookup(p.Evaluator)
	if err != nil {
		return nil, err
	}
	if p.Easing == "" || p.Easing == "linear" {
		return e, nil
	}
	ease, ok := utils.EasingByName(p.Easing)
	if !ok {
		return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalidPreset, p.Easing)
	}
	return trajectory.WithEasing(e, ease), nil
}
