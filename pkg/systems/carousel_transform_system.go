package systems

import (
	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/components"
	"github.com/decker502/cubenav/pkg/ecs"
)

// CarouselTransformSystem 轮播变换系统
//
// 每帧推进控制器（弹簧动画、延迟通知），然后按实时偏移
// 计算每个面板的变换、投影和深度。
type CarouselTransformSystem struct {
	entityManager *ecs.EntityManager
}

// NewCarouselTransformSystem 创建轮播变换系统
func NewCarouselTransformSystem(em *ecs.EntityManager) *CarouselTransformSystem {
	return &CarouselTransformSystem{entityManager: em}
}

// Update 推进动画并更新所有面板的 PanelTransformComponent
func (s *CarouselTransformSystem) Update(deltaTime float64) {
	comp := findCarousel(s.entityManager)
	if comp == nil {
		return
	}

	comp.Controller.Update(deltaTime)
	scroll := comp.Controller.Offset()
	frame := comp.Frame()

	visible := make(map[int]bool, 3)
	for _, i := range comp.Mapper.VisiblePanels(scroll, comp.Controller.Layout().Count()) {
		visible[i] = true
	}

	panels := ecs.GetEntitiesWith2[*components.PanelComponent, *components.PanelTransformComponent](s.entityManager)
	for _, id := range panels {
		panel, _ := ecs.GetComponent[*components.PanelComponent](s.entityManager, id)
		pt, _ := ecs.GetComponent[*components.PanelTransformComponent](s.entityManager, id)

		t := comp.Mapper.Map(panel.Index, scroll)
		pt.Transform = t
		pt.Visible = visible[panel.Index] && t.Opacity > 0
		if !pt.Visible {
			continue
		}
		pt.Quad = carousel.Project(t, frame)
		pt.Depth = carousel.Depth(t)
	}
}

// findCarousel 返回场景中的轮播组件（没有时返回 nil）
func findCarousel(em *ecs.EntityManager) *components.CarouselComponent {
	for _, id := range ecs.GetEntitiesWith1[*components.CarouselComponent](em) {
		if comp, ok := ecs.GetComponent[*components.CarouselComponent](em, id); ok && comp.Controller != nil {
			return comp
		}
	}
	return nil
}
