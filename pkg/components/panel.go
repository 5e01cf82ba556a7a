package components

import (
	"image/color"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/hajimehoshi/ebiten/v2"
)

// PanelComponent 立方体的一个面（一页）
type PanelComponent struct {
	// Index 页码（从 0 开始）
	Index int
	// Label 面板标题
	Label string
	// Color 背景色
	Color color.RGBA
	// Image 可选的面板图像，nil 时只绘制纯色背景
	Image *ebiten.Image
}

// PanelTransformComponent 面板当前帧的变换结果
// 由 CarouselTransformSystem 每帧写入，渲染系统只读
type PanelTransformComponent struct {
	Transform carousel.Transform
	// Quad 投影后的四个角（屏幕坐标）
	Quad carousel.Quad
	// Depth 中心深度，越小越靠后
	Depth float64
	// Visible 是否需要绘制（距当前偏移一页以内且不透明度大于 0）
	Visible bool
}
