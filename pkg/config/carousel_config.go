package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/embedded"
	"github.com/decker502/cubenav/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置字段取值非法
var ErrInvalidConfig = errors.New("invalid carousel config")

// DefaultCarouselConfigPath 内置配置文件路径（嵌入资源）
const DefaultCarouselConfigPath = "assets/config/carousel.yaml"

// 滑动完成通知方式
const (
	AfterSwipeModeSettle = "settle"
	AfterSwipeModeDelay  = "delay"
)

// 默认值
const (
	DefaultPanelCount       = 4
	DefaultSeamOverlap      = 1.0
	DefaultCaptureThreshold = 20.0
	DefaultAfterSwipeDelay  = 500 // 毫秒
	DefaultTicksPerSecond   = 60
	DefaultSoundVolume      = 0.6
)

// defaultPalette 未配置颜色的面板按序取色
var defaultPalette = []string{"#E4572E", "#29335C", "#F3A712", "#669BBC", "#A8C686", "#8E6C88"}

// CarouselConfig 立方体轮播配置
type CarouselConfig struct {
	PanelCount       int              `yaml:"panelCount"`       // 面板数量，0 表示取 panels 长度
	InitialPage      int              `yaml:"initialPage"`      // 启动时显示的页码
	ExpandedLayout   bool             `yaml:"expandedLayout"`   // 面板上下各延伸 100 像素
	LockPageIndex    *int             `yaml:"lockPageIndex"`    // 最后一个可拖拽到达的页码（可选）
	Platform         string           `yaml:"platform"`         // auto | ios | android
	SeamOverlap      *float64         `yaml:"seamOverlap"`      // 平移输出额外延伸，默认 1
	CaptureThreshold float64          `yaml:"captureThreshold"` // |dx| 超过该值才开始拖拽
	SwipeThreshold   float64          `yaml:"swipeThreshold"`   // 释放时方向偏置阈值
	ReleaseSpring    SpringSettings   `yaml:"releaseSpring"`
	ScrollSpring     SpringSettings   `yaml:"scrollSpring"`
	AfterSwipe       AfterSwipeConfig `yaml:"afterSwipe"`
	TicksPerSecond   int              `yaml:"ticksPerSecond"` // 物理步进频率
	Font             string           `yaml:"font"`           // 可选 ttf/otf，缺省使用内置字体
	Sounds           SoundConfig      `yaml:"sounds"`
	Panels           []PanelConfig    `yaml:"panels"`
}

// SoundConfig 音效配置
type SoundConfig struct {
	Swipe  string   `yaml:"swipe"`  // 翻页音效（mp3/ogg/wav），为空时使用合成的短促音
	Volume *float64 `yaml:"volume"` // 0 ~ 1，默认 0.6
}

// SpringSettings 弹簧参数（未配置的字段使用默认值）
type SpringSettings struct {
	Friction *float64 `yaml:"friction"`
	Tension  *float64 `yaml:"tension"`
}

// AfterSwipeConfig 滑动完成通知配置
type AfterSwipeConfig struct {
	Mode    string `yaml:"mode"`    // settle | delay
	DelayMs int    `yaml:"delayMs"` // delay 模式下的延迟
}

// PanelConfig 单个面板的内容
type PanelConfig struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"` // #RRGGBB 或 #RRGGBBAA
	Image string `yaml:"image"` // 可选，assets/ 下的 png/jpeg/tga
}

// DefaultCarouselConfig 返回默认配置
func DefaultCarouselConfig() *CarouselConfig {
	cfg := &CarouselConfig{}
	applyCarouselDefaults(cfg)
	return cfg
}

// LoadCarouselConfig 从磁盘读取配置
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *CarouselConfig: 已填充默认值并通过校验的配置
//   - error: 读取、解析或校验失败
func LoadCarouselConfig(path string) (*CarouselConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read carousel config file %s: %w", path, err)
	}
	return ParseCarouselConfig(data, path)
}

// LoadEmbeddedCarouselConfig 从嵌入资源读取配置
func LoadEmbeddedCarouselConfig(path string) (*CarouselConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded carousel config %s: %w", path, err)
	}
	return ParseCarouselConfig(data, path)
}

// ParseCarouselConfig 解析 YAML 数据
//
// 参数：
//   - data: YAML 内容
//   - source: 来源描述，仅用于错误信息
func ParseCarouselConfig(data []byte, source string) (*CarouselConfig, error) {
	var cfg CarouselConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse carousel config YAML from %s: %w", source, err)
	}

	applyCarouselDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("carousel config %s: %w", source, err)
	}
	return &cfg, nil
}

// applyCarouselDefaults 为缺失的可选字段设置默认值
func applyCarouselDefaults(cfg *CarouselConfig) {
	if cfg.PanelCount == 0 {
		cfg.PanelCount = len(cfg.Panels)
		if cfg.PanelCount == 0 {
			cfg.PanelCount = DefaultPanelCount
		}
	}
	if cfg.Platform == "" {
		cfg.Platform = utils.PlatformAuto
	}
	if cfg.SeamOverlap == nil {
		seam := DefaultSeamOverlap
		cfg.SeamOverlap = &seam
	}
	if cfg.CaptureThreshold == 0 {
		cfg.CaptureThreshold = DefaultCaptureThreshold
	}
	if cfg.SwipeThreshold == 0 {
		cfg.SwipeThreshold = carousel.DefaultSwipeThreshold
	}
	if cfg.AfterSwipe.Mode == "" {
		cfg.AfterSwipe.Mode = AfterSwipeModeSettle
	}
	if cfg.AfterSwipe.DelayMs == 0 {
		cfg.AfterSwipe.DelayMs = DefaultAfterSwipeDelay
	}
	if cfg.TicksPerSecond == 0 {
		cfg.TicksPerSecond = DefaultTicksPerSecond
	}

	// 面板内容不足时补齐，保证 Panels 与 PanelCount 一一对应
	for i := len(cfg.Panels); i < cfg.PanelCount; i++ {
		cfg.Panels = append(cfg.Panels, PanelConfig{})
	}
	for i := range cfg.Panels {
		if cfg.Panels[i].Label == "" {
			cfg.Panels[i].Label = fmt.Sprintf("Page %d", i+1)
		}
		if cfg.Panels[i].Color == "" {
			cfg.Panels[i].Color = defaultPalette[i%len(defaultPalette)]
		}
	}
}

// Validate 校验配置
//
// 返回：
//   - error: 包装 ErrInvalidConfig，指出非法字段
func (cfg *CarouselConfig) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if cfg.PanelCount < 1 {
		return invalid("panelCount must be at least 1, got %d", cfg.PanelCount)
	}
	if len(cfg.Panels) > cfg.PanelCount {
		return invalid("panels has %d entries but panelCount is %d", len(cfg.Panels), cfg.PanelCount)
	}
	if cfg.InitialPage < 0 || cfg.InitialPage >= cfg.PanelCount {
		return invalid("initialPage must be in [0, %d), got %d", cfg.PanelCount, cfg.InitialPage)
	}
	if cfg.LockPageIndex != nil && (*cfg.LockPageIndex < 0 || *cfg.LockPageIndex >= cfg.PanelCount) {
		return invalid("lockPageIndex must be in [0, %d), got %d", cfg.PanelCount, *cfg.LockPageIndex)
	}

	switch cfg.Platform {
	case utils.PlatformAuto, utils.PlatformIOS, utils.PlatformAndroid:
	default:
		return invalid("platform must be one of: auto, ios, android, got %q", cfg.Platform)
	}

	if cfg.SeamOverlap != nil && *cfg.SeamOverlap < 0 {
		return invalid("seamOverlap cannot be negative, got %v", *cfg.SeamOverlap)
	}
	if cfg.CaptureThreshold < 0 {
		return invalid("captureThreshold cannot be negative, got %v", cfg.CaptureThreshold)
	}
	if cfg.SwipeThreshold < 0 {
		return invalid("swipeThreshold cannot be negative, got %v", cfg.SwipeThreshold)
	}
	if !cfg.ReleaseSpringConfig().Valid() {
		return invalid("releaseSpring gives non-positive stiffness or negative damping: %+v", cfg.ReleaseSpringConfig())
	}
	if !cfg.ScrollSpringConfig().Valid() {
		return invalid("scrollSpring gives non-positive stiffness or negative damping: %+v", cfg.ScrollSpringConfig())
	}

	switch cfg.AfterSwipe.Mode {
	case AfterSwipeModeSettle, AfterSwipeModeDelay:
	default:
		return invalid("afterSwipe.mode must be one of: settle, delay, got %q", cfg.AfterSwipe.Mode)
	}
	if cfg.AfterSwipe.DelayMs < 0 {
		return invalid("afterSwipe.delayMs cannot be negative, got %d", cfg.AfterSwipe.DelayMs)
	}
	if cfg.TicksPerSecond < 1 {
		return invalid("ticksPerSecond must be positive, got %d", cfg.TicksPerSecond)
	}
	if v := cfg.Sounds.Volume; v != nil && (*v < 0 || *v > 1) {
		return invalid("sounds.volume must be in [0, 1], got %v", *v)
	}

	for i, p := range cfg.Panels {
		if _, err := ParseHexColor(p.Color); err != nil {
			return invalid("panels[%d].color: %v", i, err)
		}
	}
	return nil
}

// SoundVolume 返回音效音量
func (cfg *CarouselConfig) SoundVolume() float64 {
	if cfg.Sounds.Volume == nil {
		return DefaultSoundVolume
	}
	return *cfg.Sounds.Volume
}

// SeamOverlapValue 返回平移延伸量
func (cfg *CarouselConfig) SeamOverlapValue() float64 {
	if cfg.SeamOverlap == nil {
		return DefaultSeamOverlap
	}
	return *cfg.SeamOverlap
}

// ReleaseSpringConfig 合并默认值后的释放弹簧参数
func (cfg *CarouselConfig) ReleaseSpringConfig() carousel.SpringConfig {
	return cfg.ReleaseSpring.merge(carousel.ReleaseSpring)
}

// ScrollSpringConfig 合并默认值后的跳转弹簧参数
func (cfg *CarouselConfig) ScrollSpringConfig() carousel.SpringConfig {
	return cfg.ScrollSpring.merge(carousel.ScrollSpring)
}

func (s SpringSettings) merge(def carousel.SpringConfig) carousel.SpringConfig {
	out := def
	if s.Friction != nil {
		out.Friction = *s.Friction
	}
	if s.Tension != nil {
		out.Tension = *s.Tension
	}
	return out
}

// NotifyMode 转换为手势控制器的通知方式
func (cfg *CarouselConfig) NotifyMode() carousel.NotifyMode {
	return ParseNotifyMode(cfg.AfterSwipe.Mode)
}

// ParseNotifyMode 解析通知方式名，未知值使用 settle
func ParseNotifyMode(mode string) carousel.NotifyMode {
	if mode == AfterSwipeModeDelay {
		return carousel.NotifyAfterDelay
	}
	return carousel.NotifyOnSettle
}

// AfterSwipeDelaySeconds 返回 delay 模式的延迟（秒）
func (cfg *CarouselConfig) AfterSwipeDelaySeconds() float64 {
	return float64(cfg.AfterSwipe.DelayMs) / 1000
}

// ResolvedPlatform 解析 auto 后的平台名
func (cfg *CarouselConfig) ResolvedPlatform() string {
	return utils.ResolvePlatform(cfg.Platform)
}

// GestureOptions 构建手势控制器配置（不含回调）
func (cfg *CarouselConfig) GestureOptions() carousel.GestureOptions {
	opts := carousel.DefaultGestureOptions()
	opts.SwipeThreshold = cfg.SwipeThreshold
	opts.ReleaseSpring = cfg.ReleaseSpringConfig()
	opts.ScrollSpring = cfg.ScrollSpringConfig()
	opts.NotifyMode = cfg.NotifyMode()
	opts.AfterSwipeDelay = cfg.AfterSwipeDelaySeconds()
	if cfg.LockPageIndex != nil {
		lock := *cfg.LockPageIndex
		opts.LockPage = &lock
	}
	return opts
}

// ParseHexColor 解析 #RRGGBB / #RRGGBBAA 颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q must be #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
