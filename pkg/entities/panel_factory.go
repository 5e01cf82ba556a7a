package entities

import (
	"fmt"
	"log"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/components"
	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/ecs"
	"github.com/decker502/cubenav/pkg/game"
)

// NewPanelEntity 创建一个面板实体
//
// 参数：
//   - em: EntityManager 实例
//   - rm: ResourceManager 实例，用于加载面板图像（可为 nil，跳过图像）
//   - index: 页码
//   - panel: 面板内容配置
//
// 返回：
//   - ecs.EntityID: 创建的实体ID
//   - error: 颜色非法时返回错误；图像加载失败只记录警告
func NewPanelEntity(em *ecs.EntityManager, rm *game.ResourceManager, index int, panel config.PanelConfig) (ecs.EntityID, error) {
	rgba, err := config.ParseHexColor(panel.Color)
	if err != nil {
		return 0, fmt.Errorf("panel %d: %w", index, err)
	}

	comp := &components.PanelComponent{
		Index: index,
		Label: panel.Label,
		Color: rgba,
	}
	if panel.Image != "" && rm != nil {
		img, err := rm.LoadImage(panel.Image)
		if err != nil {
			// 图像缺失时退化为纯色面板
			log.Printf("[PanelFactory] Warning: panel %d image %s: %v", index, panel.Image, err)
		} else {
			comp.Image = img
		}
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, comp)
	ecs.AddComponent(em, id, &components.PanelTransformComponent{})
	return id, nil
}

// CarouselParams 构建轮播控制器所需参数
type CarouselParams struct {
	PanelCount     int
	Width, Height  float64 // 视口尺寸；页宽等于视口宽度
	Expanded       bool
	Platform       string // ios | android
	SeamOverlap    float64
	TicksPerSecond int
	InitialPage    int
	Gesture        carousel.GestureOptions
}

// CarouselParamsFromConfig 从配置构建参数（不含回调）
func CarouselParamsFromConfig(cfg *config.CarouselConfig, width, height float64) CarouselParams {
	return CarouselParams{
		PanelCount:     cfg.PanelCount,
		Width:          width,
		Height:         height,
		Expanded:       cfg.ExpandedLayout,
		Platform:       cfg.ResolvedPlatform(),
		SeamOverlap:    cfg.SeamOverlapValue(),
		TicksPerSecond: cfg.TicksPerSecond,
		InitialPage:    cfg.InitialPage,
		Gesture:        cfg.GestureOptions(),
	}
}

// buildCarousel 创建布局、动画驱动器、控制器和变换映射器
func buildCarousel(p CarouselParams, page int) (*carousel.GestureController, *carousel.TransformMapper, error) {
	if p.PanelCount < 1 {
		return nil, nil, fmt.Errorf("carousel needs at least one panel, got %d", p.PanelCount)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, nil, fmt.Errorf("invalid viewport %.0fx%.0f", p.Width, p.Height)
	}

	mapper, err := carousel.NewTransformMapper(p.Width, carousel.FactorsForPlatform(p.Platform), p.SeamOverlap)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build transform mapper: %w", err)
	}

	layout := carousel.NewPageLayout(p.PanelCount, p.Width)
	driver := carousel.NewAnimationDriver(p.TicksPerSecond)
	gc := carousel.NewGestureController(layout, driver, p.Gesture)
	if err := gc.ScrollTo(page, false); err != nil {
		return nil, nil, fmt.Errorf("failed to set initial page: %w", err)
	}
	return gc, mapper, nil
}

// NewCarouselEntity 创建持有轮播状态的实体
//
// 返回：
//   - ecs.EntityID: 实体ID
//   - *components.CarouselComponent: 已添加到实体上的组件
//   - error: 参数非法
func NewCarouselEntity(em *ecs.EntityManager, p CarouselParams) (ecs.EntityID, *components.CarouselComponent, error) {
	gc, mapper, err := buildCarousel(p, p.InitialPage)
	if err != nil {
		return 0, nil, err
	}

	comp := &components.CarouselComponent{
		Controller:     gc,
		Mapper:         mapper,
		ViewportWidth:  p.Width,
		ViewportHeight: p.Height,
		Expanded:       p.Expanded,
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, comp)
	log.Printf("[PanelFactory] Carousel created: %d panels, %.0fx%.0f, page %d", p.PanelCount, p.Width, p.Height, p.InitialPage)
	return id, comp, nil
}

// RebuildCarousel 视口尺寸或平台变化后重建控制器，保持当前页
//
// 进行中的拖拽和动画被丢弃，轮播直接停在原来的页上。
func RebuildCarousel(comp *components.CarouselComponent, p CarouselParams) error {
	page := comp.Controller.CurrentPage()
	gc, mapper, err := buildCarousel(p, page)
	if err != nil {
		return err
	}

	comp.Controller = gc
	comp.Mapper = mapper
	comp.ViewportWidth = p.Width
	comp.ViewportHeight = p.Height
	comp.Expanded = p.Expanded
	comp.Captured = false
	// 按下起点的位移相对旧控制器，剩余的这次按下不再驱动新控制器
	comp.IgnorePress = true
	log.Printf("[PanelFactory] Carousel rebuilt: %.0fx%.0f, page %d", p.Width, p.Height, page)
	return nil
}
