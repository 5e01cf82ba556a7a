// Package carousel 实现立方体翻页轮播的核心逻辑
//
// 包含页面偏移布局（PageLayout）、最近页吸附（Resolve）、
// 逐面板透视变换映射（TransformMapper）、弹簧动画驱动（AnimationDriver）
// 以及手势控制器（GestureController）。
//
// 本包不直接绘制任何内容：渲染由 pkg/systems 中的系统负责，
// 它们每帧读取 GestureController.Offset() 并调用 TransformMapper.Map()。
package carousel

import (
	"fmt"
	"math"
)

// ExpandedPadding 扩展布局时面板在视口上下各延伸的距离
const ExpandedPadding = 100.0

// PageLayout 页面偏移布局
//
// offsets[i] = -unit * i，严格递减、间距恒为 unit。
// 构造后不再修改，所有组件只读访问。
type PageLayout struct {
	unit    float64
	offsets []float64
}

// NewPageLayout 根据面板数量和面板宽度创建页面布局
//
// 参数：
//   - count: 面板数量，必须 >= 1
//   - unit: 面板在滚动方向上的尺寸，必须 > 0
//
// count < 1 或 unit <= 0 属于调用方编程错误，直接 panic。
func NewPageLayout(count int, unit float64) *PageLayout {
	if count < 1 {
		panic(fmt.Sprintf("carousel: panel count must be >= 1, got %d", count))
	}
	if unit <= 0 || math.IsNaN(unit) || math.IsInf(unit, 0) {
		panic(fmt.Sprintf("carousel: panel extent must be > 0, got %v", unit))
	}

	offsets := make([]float64, count)
	for i := range offsets {
		offsets[i] = -unit * float64(i)
	}

	return &PageLayout{
		unit:    unit,
		offsets: offsets,
	}
}

// Count 返回面板数量
func (l *PageLayout) Count() int {
	return len(l.offsets)
}

// Unit 返回面板尺寸
func (l *PageLayout) Unit() float64 {
	return l.unit
}

// Offsets 返回页面偏移的副本
func (l *PageLayout) Offsets() []float64 {
	out := make([]float64, len(l.offsets))
	copy(out, l.offsets)
	return out
}

// Offset 返回第 i 页的静止偏移
// i 越界时 panic（与切片访问一致）
func (l *PageLayout) Offset(i int) float64 {
	return l.offsets[i]
}

// First 返回第一页偏移（始终为 0）
func (l *PageLayout) First() float64 {
	return l.offsets[0]
}

// Last 返回最后一页偏移
func (l *PageLayout) Last() float64 {
	return l.offsets[len(l.offsets)-1]
}

// ValidIndex 判断页码是否在 [0, N) 内
func (l *PageLayout) ValidIndex(i int) bool {
	return i >= 0 && i < len(l.offsets)
}

// LockBoundary 返回锁定页对应的拖拽边界
//
// 参数：
//   - lockPage: 最后一个可通过拖拽到达的页码；越界时退化为最后一页
func (l *PageLayout) LockBoundary(lockPage int) float64 {
	if !l.ValidIndex(lockPage) {
		return l.Last()
	}
	return l.offsets[lockPage]
}

// IndexOf 查找与 offset 完全相等的页码
func (l *PageLayout) IndexOf(offset float64) (int, bool) {
	for i, o := range l.offsets {
		if o == offset {
			return i, true
		}
	}
	return -1, false
}

// FractionalIndex 返回偏移对应的（可能带小数的）页码：|offset / unit|
func (l *PageLayout) FractionalIndex(offset float64) float64 {
	return math.Abs(offset / l.unit)
}

// Rect 简单矩形
type Rect struct {
	X, Y, Width, Height float64
}

// PanelFrame 计算面板容器的矩形
//
// 扩展布局下容器在视口上下各延伸 ExpandedPadding，
// 使越界拖拽时面板边缘不会露出；否则与视口一致。
//
// 返回：
//   - frame: 面板容器矩形（相对视口）
//   - padding: 内容区上下内边距
func PanelFrame(viewWidth, viewHeight float64, expanded bool) (frame Rect, padding float64) {
	if expanded {
		return Rect{
			X:      0,
			Y:      -ExpandedPadding,
			Width:  viewWidth,
			Height: viewHeight + 2*ExpandedPadding,
		}, ExpandedPadding
	}
	return Rect{Width: viewWidth, Height: viewHeight}, 0
}
