package config

import (
	"math"

	"github.com/decker502/cubenav/pkg/utils"
)

// 布局配置常量
// 本文件定义了轮播场景的窗口尺寸、页码指示器和文字等布局参数

// Window Configuration (窗口配置)
const (
	// GameWindowWidth 桌面端默认窗口宽度（竖屏手机比例）
	GameWindowWidth = 480

	// GameWindowHeight 桌面端默认窗口高度
	GameWindowHeight = 800

	// WindowTitle 窗口标题
	WindowTitle = "Cube Navigation"
)

// Page Indicator Configuration (页码指示器配置)
const (
	// IndicatorDotRadius 指示点半径（像素）
	IndicatorDotRadius = 5.0

	// IndicatorActiveRadius 当前页指示点的最大半径
	IndicatorActiveRadius = 8.0

	// IndicatorDotSpacing 相邻指示点圆心间距
	IndicatorDotSpacing = 22.0

	// IndicatorBottomMargin 指示点距离屏幕底部的距离
	IndicatorBottomMargin = 48.0

	// IndicatorCaptionOffset 页码文字在指示点上方的距离
	IndicatorCaptionOffset = 28.0
)

// Panel Rendering Configuration (面板渲染配置)
const (
	// PanelStrips 每个面板沿 X 方向切分的竖条数
	// 逐条投影，减轻大角度时两个三角形的仿射扭曲
	PanelStrips = 16

	// LabelFontSize 面板标题字号
	LabelFontSize = 32.0

	// CaptionFontSize 页码说明字号
	CaptionFontSize = 14.0

	// BackgroundGray 背景灰度
	BackgroundGray = 18
)

// GetIndicatorOrigin 返回第一个指示点的圆心
//
// 参数：
//   - screenW, screenH: 视口尺寸
//   - count: 页数
//
// 返回：首个圆心坐标，其余指示点依次向右 IndicatorDotSpacing
func GetIndicatorOrigin(screenW, screenH float64, count int) (float64, float64) {
	totalWidth := float64(count-1) * IndicatorDotSpacing
	return screenW/2 - totalWidth/2, screenH - IndicatorBottomMargin
}

// IndicatorDot 计算第 i 个指示点的半径和不透明度
//
// 越接近实时小数页码的点越大越亮，拖拽过程中相邻两个点平滑交接。
//
// 参数：
//   - i: 指示点序号
//   - fractionalIndex: 实时小数页码
func IndicatorDot(i int, fractionalIndex float64) (radius, alpha float64) {
	closeness := 1 - utils.Clamp(math.Abs(fractionalIndex-float64(i)), 0, 1)
	radius = utils.Lerp(IndicatorDotRadius, IndicatorActiveRadius, closeness)
	alpha = utils.Lerp(0.35, 1, closeness)
	return radius, alpha
}
