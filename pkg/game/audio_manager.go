package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// ClickSampleRate 提示音采样率
const ClickSampleRate = 48000

// 提示音参数
const (
	clickFrequency = 880.0 // Hz
	clickSeconds   = 0.06
)

// AudioManager 音频管理器
// 职责：在轨迹边界事件（循环折回 / 到达端点）时播放一声短促的提示音，
// 音量和开关从 SettingsManager 读取
type AudioManager struct {
	context         *audio.Context   // 可为 nil（静音模式）
	settingsManager *SettingsManager // 设置管理器，可为 nil
	click           []byte           // 预生成的 16 位立体声 PCM
	player          *audio.Player    // 复用的播放器
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文（采样率应为 ClickSampleRate），为 nil 时所有播放调用都是空操作
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		click:           GenerateClick(ClickSampleRate, clickFrequency, clickSeconds),
	}
}

// PlayClick 播放边界事件提示音
//
// 返回：
//   - bool: 是否实际播放
func (am *AudioManager) PlayClick() bool {
	if am == nil || am.context == nil {
		return false
	}

	volume := 1.0
	if am.settingsManager != nil {
		settings := am.settingsManager.GetSettings()
		if !settings.SoundEnabled {
			return false
		}
		volume = settings.SoundVolume
	}

	if am.player == nil {
		am.player = am.context.NewPlayerFromBytes(am.click)
	}
	am.player.SetVolume(volume)

	if err := am.player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind click: %v", err)
	}
	am.player.Play()
	return true
}

// GenerateClick 生成带指数衰减包络的正弦提示音
//
// 返回 16 位有符号小端立体声 PCM，长度为 round(sampleRate*seconds)*4 字节
func GenerateClick(sampleRate int, frequency, seconds float64) []byte {
	n := int(math.Round(float64(sampleRate) * seconds))
	if n <= 0 {
		return nil
	}

	buf := make([]byte, n*4)
	decay := 5.0 / float64(n)
	for i := range n {
		env := math.Exp(-decay * float64(i))
		v := math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)) * env
		s := int16(v * 0.8 * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(s))
	}
	return buf
}
