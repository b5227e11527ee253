package game

import (
	"fmt"
	"log"
	"math"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// MaxViewerTimeScale 查看器允许的最大速度倍率（绝对值）
const MaxViewerTimeScale = 4.0

const timeScaleEpsilon = 1e-9

// ViewerSettings 轨迹查看器的持久化设置
type ViewerSettings struct {
	LastPreset   string  `yaml:"lastPreset"`   // 上次选中的预设
	TimeScale    float64 `yaml:"timeScale"`    // 带符号速度倍率
	ShowTrail    bool    `yaml:"showTrail"`    // 是否绘制尾迹
	ShowSideView bool    `yaml:"showSideView"` // 是否绘制侧视图
	SoundEnabled bool    `yaml:"soundEnabled"` // 边界事件提示音开关
	SoundVolume  float64 `yaml:"soundVolume"`  // 提示音音量 0.0 ~ 1.0
}

// DefaultViewerSettings 返回默认设置
func DefaultViewerSettings() *ViewerSettings {
	return &ViewerSettings{
		TimeScale:    1,
		ShowTrail:    true,
		ShowSideView: true,
		SoundEnabled: true,
		SoundVolume:  0.5,
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，会回退到默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultViewerSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[ViewerSettings] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或数据不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultViewerSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultViewerSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultViewerSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 缺失的字段保留默认值
	loaded := DefaultViewerSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultViewerSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	loaded.TimeScale = clampTimeScale(loaded.TimeScale)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	sm.settings = loaded
	log.Printf("[ViewerSettings] Settings loaded (preset=%q, timeScale=%.2f)", loaded.LastPreset, loaded.TimeScale)
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时直接返回 nil（降级模式）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[ViewerSettings] Settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetLastPreset 记录当前预设
func (sm *SettingsManager) SetLastPreset(name string) {
	sm.settings.LastPreset = name
}

// SetTimeScale 设置速度倍率
//
// 限制在 [-MaxViewerTimeScale, MaxViewerTimeScale] 范围内，0 被视为 1
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetTimeScale(scale float64) {
	sm.settings.TimeScale = clampTimeScale(scale)
}

// StepTimeScale 按步长调整速度倍率，跳过 0
//
// 例如倍率为 0.25、步长为 -0.25 时结果为 -0.25
func (sm *SettingsManager) StepTimeScale(step float64) {
	next := sm.settings.TimeScale + step
	if math.Abs(next) < timeScaleEpsilon {
		next += step
	}
	sm.SetTimeScale(next)
}

// ToggleTrail 切换尾迹绘制
func (sm *SettingsManager) ToggleTrail() {
	sm.settings.ShowTrail = !sm.settings.ShowTrail
}

// ToggleSideView 切换侧视图
func (sm *SettingsManager) ToggleSideView() {
	sm.settings.ShowSideView = !sm.settings.ShowSideView
}

// SetSoundEnabled 设置提示音开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetSoundVolume 设置提示音音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// clampTimeScale 零倍率会让一次性轨迹停在起点，恢复为 1
func clampTimeScale(scale float64) float64 {
	if math.Abs(scale) < timeScaleEpsilon || math.IsNaN(scale) {
		return 1
	}
	return max(-MaxViewerTimeScale, min(scale, MaxViewerTimeScale))
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
