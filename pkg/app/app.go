// Package app 提供轮播应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/embedded"
	"github.com/decker502/cubenav/pkg/game"
	"github.com/decker502/cubenav/pkg/scenes"
	"github.com/decker502/cubenav/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// StorageAppName 偏好设置的 gdata 应用名
const StorageAppName = "cubenav"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 磁盘上的配置文件，为空则使用嵌入的 assets/config/carousel.yaml
	ConfigPath string
	// Page 启动页码，nil 表示使用配置中的 initialPage
	Page *int
	// Platform 覆盖平台变换系数（auto、ios、android），为空表示使用配置和偏好
	Platform string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	deltaTime                float64
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// LoadConfig 加载配置、合并偏好和命令行覆盖，并校验
//
// 参数：
//   - cfg: 启动配置
//   - settings: 偏好设置，可为 nil
func LoadConfig(cfg Config, settings *game.SettingsManager) (*config.CarouselConfig, error) {
	var (
		carouselCfg *config.CarouselConfig
		err         error
	)
	switch {
	case cfg.ConfigPath != "":
		carouselCfg, err = config.LoadCarouselConfig(cfg.ConfigPath)
	case embedded.IsInitialized():
		carouselCfg, err = config.LoadEmbeddedCarouselConfig(config.DefaultCarouselConfigPath)
	default:
		log.Printf("[App] Embedded assets not initialized, using default config")
		carouselCfg = config.DefaultCarouselConfig()
	}
	if err != nil {
		return nil, err
	}

	if settings != nil {
		settings.GetSettings().Apply(carouselCfg)
	}
	if cfg.Platform != "" {
		carouselCfg.Platform = cfg.Platform
	}
	if cfg.Page != nil {
		carouselCfg.InitialPage = *cfg.Page
	}

	if err := carouselCfg.Validate(); err != nil {
		return nil, err
	}
	return carouselCfg, nil
}

// NewApp 创建并初始化应用
//
// 调用此函数前，应先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings := game.NewSettingsManager(game.OpenStorage(StorageAppName))

	carouselCfg, err := LoadConfig(cfg, settings)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	log.Printf("[App] Config loaded: %d panels, platform %s, tps %d",
		carouselCfg.PanelCount, carouselCfg.ResolvedPlatform(), carouselCfg.TicksPerSecond)

	resourceManager := game.NewResourceManager()

	scene, err := scenes.NewCarouselScene(resourceManager, settings, carouselCfg, config.GameWindowWidth, config.GameWindowHeight)
	if err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	// 音频上下文每个进程只能创建一次
	audioContext := audio.NewContext(game.SampleRate)
	audioManager := game.NewAudioManager(audioContext, resourceManager, settings,
		map[string]string{game.SoundSwipe: carouselCfg.Sounds.Swipe}, carouselCfg.SoundVolume())
	audioManager.PreloadSounds(game.SoundSwipe)
	scene.SetAudio(audioManager)

	sceneManager := game.NewSceneManager()
	sceneManager.SetViewport(config.GameWindowWidth, config.GameWindowHeight)
	sceneManager.SwitchTo(scene)

	ebiten.SetTPS(carouselCfg.TicksPerSecond)
	if !utils.IsMobile() && settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		deltaTime:    1.0 / float64(carouselCfg.TicksPerSecond),
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（频率由 ticksPerSecond 决定）
func (a *App) Update() error {
	// 关闭窗口前保存偏好
	if ebiten.IsWindowBeingClosed() {
		a.sceneManager.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（仅桌面端）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(a.deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}

	a.settings.SetFullscreen(ebiten.IsFullscreen())
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save fullscreen setting: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制缩放时的 letterbox 颜色和滤波
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
//
// 逻辑尺寸跟随窗口（或移动设备屏幕）变化，页宽始终等于视口宽度；
// 尺寸变化时场景重建布局并保持当前页。
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	a.sceneManager.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
