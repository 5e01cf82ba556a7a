package game

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate 音频上下文采样率
const SampleRate = 48000

// 音效 ID
const (
	// SoundSwipe 滑动完成（翻到新的一页）
	SoundSwipe = "swipe"
)

// 合成音参数
const (
	clickFrequency = 880.0 // Hz
	clickDuration  = 0.06  // 秒
	clickDecay     = 60.0  // 指数衰减速率
	clickAmplitude = 0.5
)

// AudioManager 音频管理器
// 职责：
//   - 按音效 ID 播放翻页音效，文件未配置时使用合成的短促音
//   - 遵循 SettingsManager 中的静音偏好
//
// audio.Context 每个进程只能创建一次，由调用方传入；为 nil 时所有播放都是空操作。
type AudioManager struct {
	context         *audio.Context
	resourceManager *ResourceManager
	settingsManager *SettingsManager
	sources         map[string]string        // 音效 ID -> 文件路径
	players         map[string]*audio.Player // 播放器缓存
	volume          float64
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: 音频上下文，可为 nil（静默）
//   - rm: ResourceManager 实例（用于解码音频文件）
//   - sm: SettingsManager 实例（用于读取静音设置，可为 nil）
//   - sources: 音效 ID 到文件路径的映射，未列出或路径为空的音效使用合成音
//   - volume: 音量 (0.0 ~ 1.0)
func NewAudioManager(ctx *audio.Context, rm *ResourceManager, sm *SettingsManager, sources map[string]string, volume float64) *AudioManager {
	return &AudioManager{
		context:         ctx,
		resourceManager: rm,
		settingsManager: sm,
		sources:         sources,
		players:         make(map[string]*audio.Player),
		volume:          volume,
	}
}

// PlaySound 播放音效
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am.IsMuted() || am.context == nil {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// IsMuted 是否静音
func (am *AudioManager) IsMuted() bool {
	return am.settingsManager != nil && am.settingsManager.GetSettings().Muted
}

// Volume 返回音量
func (am *AudioManager) Volume() float64 {
	return am.volume
}

// PreloadSounds 预加载音效
// 在场景初始化时调用，避免首次播放时的延迟
func (am *AudioManager) PreloadSounds(soundIDs ...string) {
	if am.context == nil {
		return
	}
	for _, soundID := range soundIDs {
		am.getSoundPlayer(soundID)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(soundIDs))
}

// getSoundPlayer 获取或创建音效播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.players[soundID]; exists {
		return player
	}

	player := am.context.NewPlayerFromBytes(am.soundData(soundID))
	am.players[soundID] = player
	return player
}

// soundData 返回音效的 PCM 数据，文件缺失或解码失败时回退到合成音
func (am *AudioManager) soundData(soundID string) []byte {
	path := am.sources[soundID]
	if path != "" && am.resourceManager != nil {
		data, err := am.resourceManager.LoadSoundData(path, am.context.SampleRate())
		if err == nil {
			return data
		}
		log.Printf("[AudioManager] Warning: Failed to load sound %s: %v (using synthesized click)", soundID, err)
	}
	return SynthesizeClick(am.context.SampleRate())
}

// SynthesizeClick 合成一段衰减正弦短音
//
// 返回 16 位小端立体声 PCM，可直接交给 audio.Context.NewPlayerFromBytes。
func SynthesizeClick(sampleRate int) []byte {
	frames := int(float64(sampleRate) * clickDuration)
	buf := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		v := clickAmplitude * math.Exp(-clickDecay*t) * math.Sin(2*math.Pi*clickFrequency*t)
		sample := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], sample)
		binary.LittleEndian.PutUint16(buf[i*4+2:], sample)
	}
	return buf
}
