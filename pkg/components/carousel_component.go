package components

import (
	"github.com/decker502/cubenav/pkg/carousel"
)

// CarouselComponent 轮播的全局状态（整个场景只有一个）
type CarouselComponent struct {
	Controller *carousel.GestureController
	Mapper     *carousel.TransformMapper

	// ViewportWidth, ViewportHeight 视口尺寸（逻辑像素）
	ViewportWidth  float64
	ViewportHeight float64

	// Expanded 是否使用展开布局（面板上下各延伸 ExpandedPadding）
	Expanded bool

	// Captured 输入系统是否已接管当前按下（|dx| 超过捕获阈值后为 true）
	Captured bool

	// IgnorePress 控制器重建后作废当前按下，松开或下一次按下时清除
	IgnorePress bool
}

// Frame 返回当前布局下的面板容器矩形
func (c *CarouselComponent) Frame() carousel.Rect {
	frame, _ := carousel.PanelFrame(c.ViewportWidth, c.ViewportHeight, c.Expanded)
	return frame
}
