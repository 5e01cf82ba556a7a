package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/components"
	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/ecs"
	"github.com/decker502/cubenav/pkg/entities"
	"github.com/decker502/cubenav/pkg/game"
	"github.com/decker502/cubenav/pkg/systems"
	"github.com/decker502/cubenav/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// CarouselScene 立方体轮播场景
//
// 快捷键：
//   - 方向键 / Home / End: 翻页
//   - E: 切换展开布局
//   - L: 循环切换锁定页（不锁定 → 第 1 页 → ... → 最后一页 → 不锁定）
//   - M: 切换滑动完成通知方式（settle / delay）
//   - S: 切换翻页音效
type CarouselScene struct {
	resourceManager *game.ResourceManager
	settings        *game.SettingsManager
	audio           *game.AudioManager
	keys            systems.KeyInput

	entityManager   *ecs.EntityManager
	carousel        *components.CarouselComponent
	params          entities.CarouselParams
	inputSystem     *systems.CarouselInputSystem
	transformSystem *systems.CarouselTransformSystem
	renderSystem    *systems.CarouselRenderSystem
	indicatorSystem *systems.PageIndicatorSystem

	// lastSwipe 最近一次滑动完成通知的页码，-1 表示尚未收到
	lastSwipe  int
	background color.Color
}

// NewCarouselScene 创建轮播场景
//
// 参数：
//   - rm: ResourceManager 实例，用于加载面板图像和字体
//   - settings: 偏好设置管理器，可为 nil（不保存偏好）
//   - cfg: 已合并偏好的配置
//   - width, height: 初始视口尺寸
func NewCarouselScene(rm *game.ResourceManager, settings *game.SettingsManager, cfg *config.CarouselConfig, width, height int) (*CarouselScene, error) {
	return NewCarouselSceneWithInput(rm, settings, cfg, width, height, nil, nil)
}

// NewCarouselSceneWithInput 创建带自定义输入的轮播场景（用于测试）
//
// pointer 为 nil 时使用 Ebitengine 指针输入；keys 为 nil 时使用 Ebitengine 键盘输入。
func NewCarouselSceneWithInput(rm *game.ResourceManager, settings *game.SettingsManager, cfg *config.CarouselConfig,
	width, height int, pointer utils.PointerSource, keys systems.KeyInput) (*CarouselScene, error) {
	if keys == nil {
		keys = systems.DefaultKeyInput()
	}

	scene := &CarouselScene{
		resourceManager: rm,
		settings:        settings,
		keys:            keys,
		entityManager:   ecs.NewEntityManager(),
		lastSwipe:       -1,
		background:      color.Gray{Y: config.BackgroundGray},
	}

	scene.params = entities.CarouselParamsFromConfig(cfg, float64(width), float64(height))
	scene.params.Gesture.AfterSwipe = scene.onAfterSwipe

	_, comp, err := entities.NewCarouselEntity(scene.entityManager, scene.params)
	if err != nil {
		return nil, fmt.Errorf("failed to create carousel: %w", err)
	}
	scene.carousel = comp

	for i := 0; i < cfg.PanelCount; i++ {
		if _, err := entities.NewPanelEntity(scene.entityManager, rm, i, cfg.Panels[i]); err != nil {
			return nil, fmt.Errorf("failed to create panel: %w", err)
		}
	}

	labelFace, captionFace := scene.loadFaces(cfg.Font)
	scene.inputSystem = systems.NewCarouselInputSystemWithInput(scene.entityManager, pointer, keys, cfg.CaptureThreshold)
	scene.transformSystem = systems.NewCarouselTransformSystem(scene.entityManager)
	scene.renderSystem = systems.NewCarouselRenderSystem(scene.entityManager, labelFace)
	scene.indicatorSystem = systems.NewPageIndicatorSystem(scene.entityManager, captionFace)
	scene.updateStatus()

	// 首帧之前先计算一次变换
	scene.transformSystem.Update(0)
	log.Printf("[CarouselScene] Initialized with %d panels", cfg.PanelCount)
	return scene, nil
}

// loadFaces 加载标题和说明字体，配置字体失败时回退到内置字体
func (s *CarouselScene) loadFaces(fontPath string) (label, caption text.Face) {
	if s.resourceManager == nil {
		return nil, nil
	}

	load := func(size float64) text.Face {
		if fontPath != "" {
			face, err := s.resourceManager.LoadFont(fontPath, size)
			if err == nil {
				return face
			}
			log.Printf("[CarouselScene] Warning: failed to load font %s: %v (using builtin)", fontPath, err)
		}
		face, err := s.resourceManager.LoadDefaultFont(size)
		if err != nil {
			log.Printf("[CarouselScene] Warning: failed to load builtin font: %v", err)
			return nil
		}
		return face
	}
	return load(config.LabelFontSize), load(config.CaptionFontSize)
}

// Controller 返回当前的手势控制器（视口变化后会被替换）
func (s *CarouselScene) Controller() *carousel.GestureController {
	return s.carousel.Controller
}

// Carousel 返回轮播组件
func (s *CarouselScene) Carousel() *components.CarouselComponent {
	return s.carousel
}

// SetAudio 设置翻页音效播放器，nil 表示不播放
func (s *CarouselScene) SetAudio(am *game.AudioManager) {
	s.audio = am
}

// LastSwipe 返回最近一次滑动完成通知的页码，-1 表示尚未收到
func (s *CarouselScene) LastSwipe() int {
	return s.lastSwipe
}

// Update 处理场景快捷键，然后更新输入和变换系统
func (s *CarouselScene) Update(deltaTime float64) {
	switch {
	case s.keys.IsKeyJustPressed(ebiten.KeyE):
		s.ToggleExpanded()
	case s.keys.IsKeyJustPressed(ebiten.KeyL):
		s.CycleLockPage()
	case s.keys.IsKeyJustPressed(ebiten.KeyM):
		s.ToggleNotifyMode()
	case s.keys.IsKeyJustPressed(ebiten.KeyS):
		s.ToggleMute()
	}

	s.inputSystem.Update(deltaTime)
	s.transformSystem.Update(deltaTime)
}

// Draw 绘制背景、面板和页码指示器
func (s *CarouselScene) Draw(screen *ebiten.Image) {
	screen.Fill(s.background)
	s.renderSystem.Draw(screen)
	s.indicatorSystem.Draw(screen)
}

// Resize 视口尺寸变化时重建布局，保持当前页
func (s *CarouselScene) Resize(width, height int) {
	if float64(width) == s.params.Width && float64(height) == s.params.Height {
		return
	}

	s.params.Width, s.params.Height = float64(width), float64(height)
	if err := entities.RebuildCarousel(s.carousel, s.params); err != nil {
		log.Printf("[CarouselScene] Warning: failed to rebuild carousel for %dx%d: %v", width, height, err)
		return
	}
	s.renderSystem.Invalidate()
	s.transformSystem.Update(0)
}

// ToggleExpanded 切换展开布局
func (s *CarouselScene) ToggleExpanded() {
	s.params.Expanded = !s.params.Expanded
	s.carousel.Expanded = s.params.Expanded
	s.renderSystem.Invalidate()
	s.transformSystem.Update(0)
	log.Printf("[CarouselScene] Expanded layout: %v", s.params.Expanded)

	if s.settings != nil {
		s.settings.SetExpandedLayout(s.params.Expanded)
		s.saveSettings()
	}
}

// CycleLockPage 循环切换锁定页
func (s *CarouselScene) CycleLockPage() {
	gc := s.carousel.Controller
	count := gc.Layout().Count()

	var next *int
	if lock, ok := gc.LockPage(); !ok {
		page := 0
		next = &page
	} else if lock+1 < count {
		page := lock + 1
		next = &page
	}

	if next != nil {
		gc.SetLockPage(*next)
		log.Printf("[CarouselScene] Lock page: %d", *next)
	} else {
		gc.ClearLockPage()
		log.Printf("[CarouselScene] Lock page cleared")
	}
	s.params.Gesture.LockPage = next
	s.updateStatus()

	if s.settings != nil {
		s.settings.SetLockPage(next)
		s.saveSettings()
	}
}

// ToggleNotifyMode 切换滑动完成通知方式
func (s *CarouselScene) ToggleNotifyMode() {
	mode := carousel.NotifyAfterDelay
	name := config.AfterSwipeModeDelay
	if s.carousel.Controller.NotifyMode() == carousel.NotifyAfterDelay {
		mode = carousel.NotifyOnSettle
		name = config.AfterSwipeModeSettle
	}

	s.carousel.Controller.SetNotifyMode(mode)
	s.params.Gesture.NotifyMode = mode
	s.updateStatus()
	log.Printf("[CarouselScene] After swipe mode: %s", name)

	if s.settings != nil {
		s.settings.SetAfterSwipeMode(name)
		s.saveSettings()
	}
}

// ToggleMute 切换翻页音效
// 静音状态保存在偏好里，没有偏好管理器时不可切换
func (s *CarouselScene) ToggleMute() {
	if s.settings == nil {
		return
	}
	muted := !s.settings.GetSettings().Muted
	s.settings.SetMuted(muted)
	s.updateStatus()
	log.Printf("[CarouselScene] Muted: %v", muted)
	s.saveSettings()
}

// SaveOnExit 实现 game.Saveable
func (s *CarouselScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	return s.saveSettings()
}

func (s *CarouselScene) saveSettings() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[CarouselScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}

func (s *CarouselScene) onAfterSwipe(destination, fractionalIndex float64) {
	s.lastSwipe = int(fractionalIndex + 0.5)
	log.Printf("[CarouselScene] After swipe: page %d (%.1f)", s.lastSwipe, destination)
	if s.audio != nil {
		s.audio.PlaySound(game.SoundSwipe)
	}
}

// updateStatus 刷新指示器上的锁定页和通知方式
func (s *CarouselScene) updateStatus() {
	status := ""
	if lock, ok := s.carousel.Controller.LockPage(); ok {
		status = fmt.Sprintf("[lock %d]", lock+1)
	}
	if s.carousel.Controller.NotifyMode() == carousel.NotifyAfterDelay {
		if status != "" {
			status += " "
		}
		status += "[delay]"
	}
	if s.settings != nil && s.settings.GetSettings().Muted {
		if status != "" {
			status += " "
		}
		status += "[muted]"
	}
	s.indicatorSystem.SetStatus(status)
}
