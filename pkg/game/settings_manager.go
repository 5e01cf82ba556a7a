package game

import (
	"fmt"
	"log"

	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// UnlockedPage 表示用户显式解除了页面锁定
const UnlockedPage = -1

// Settings 用户偏好设置
// 未设置的字段（nil 或空字符串）沿用 carousel.yaml 中的值。
// 轮播位置不属于偏好，不会被保存。
type Settings struct {
	// 显示设置
	Fullscreen     bool  `yaml:"fullscreen"`     // 启动时是否全屏
	ExpandedLayout *bool `yaml:"expandedLayout"` // 带内边距的展开布局

	// 手势设置
	LockPageIndex  *int   `yaml:"lockPageIndex"`  // 锁定页；UnlockedPage 表示不锁定
	AfterSwipeMode string `yaml:"afterSwipeMode"` // settle | delay
	Platform       string `yaml:"platform"`       // auto | ios | android

	// 音效设置
	Muted bool `yaml:"muted"` // 关闭翻页音效
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{}
}

// Apply 将偏好覆盖到配置上
//
// 越界的页码被忽略，不会使配置失效。
//
// 参数：
//   - cfg: 已加载并通过校验的配置（会被原地修改）
func (s *Settings) Apply(cfg *config.CarouselConfig) {
	if s.ExpandedLayout != nil {
		cfg.ExpandedLayout = *s.ExpandedLayout
	}
	if s.LockPageIndex != nil {
		switch lock := *s.LockPageIndex; {
		case lock == UnlockedPage:
			cfg.LockPageIndex = nil
		case lock >= 0 && lock < cfg.PanelCount:
			cfg.LockPageIndex = &lock
		}
	}
	switch s.AfterSwipeMode {
	case config.AfterSwipeModeSettle, config.AfterSwipeModeDelay:
		cfg.AfterSwipe.Mode = s.AfterSwipeMode
	}
	switch s.Platform {
	case utils.PlatformAuto, utils.PlatformIOS, utils.PlatformAndroid:
		cfg.Platform = s.Platform
	}
}

// SettingsManager 设置管理器
// 负责偏好设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *Settings      // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "carousel"
)

// OpenStorage 打开偏好设置存储
//
// 失败时记录警告并返回 nil，调用方以降级模式继续运行。
//
// 参数：
//   - appName: gdata 应用名
func OpenStorage(appName string) *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[SettingsManager] Warning: storage dir unavailable: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: failed to open storage: %v (preferences will not persist)", err)
		return nil
	}
	return manager
}

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 加载失败不是致命错误，使用默认设置
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
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

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// IsPersistent 设置是否会被持久化
func (sm *SettingsManager) IsPersistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetExpandedLayout 设置展开布局
func (sm *SettingsManager) SetExpandedLayout(expanded bool) {
	sm.settings.ExpandedLayout = &expanded
}

// SetLockPage 设置锁定页
//
// 参数：
//   - page: 锁定页索引，nil 表示解除锁定
func (sm *SettingsManager) SetLockPage(page *int) {
	lock := UnlockedPage
	if page != nil {
		lock = *page
	}
	sm.settings.LockPageIndex = &lock
}

// SetAfterSwipeMode 设置滑动完成通知方式（settle 或 delay）
func (sm *SettingsManager) SetAfterSwipeMode(mode string) {
	sm.settings.AfterSwipeMode = mode
}

// SetMuted 设置是否静音
func (sm *SettingsManager) SetMuted(muted bool) {
	sm.settings.Muted = muted
}

// SetPlatform 设置平台变换系数（auto、ios 或 android）
func (sm *SettingsManager) SetPlatform(platform string) {
	sm.settings.Platform = platform
}
