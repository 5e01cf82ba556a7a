// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerSource 指针（触摸或鼠标左键）输入源
// 用于依赖注入，测试时用 mock 替换 Ebitengine 的全局输入
type PointerSource interface {
	// Pointer 返回指针是否按下及其屏幕坐标
	Pointer() (pressed bool, x, y int)
}

// EbitenPointer 基于 Ebitengine 的默认输入源
//
// 触摸优先：跟踪第一个按下的触摸点直到它抬起；没有触摸时使用鼠标左键。
type EbitenPointer struct {
	touchID  ebiten.TouchID
	tracking bool
	lastX    int
	lastY    int
}

// NewEbitenPointer 创建默认输入源
func NewEbitenPointer() *EbitenPointer {
	return &EbitenPointer{touchID: -1}
}

// Pointer 实现 PointerSource
func (p *EbitenPointer) Pointer() (bool, int, int) {
	if p.tracking {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if id == p.touchID {
				p.lastX, p.lastY = ebiten.TouchPosition(id)
				return true, p.lastX, p.lastY
			}
		}
		// 触摸已抬起：释放帧使用最后一次触摸位置
		p.tracking = false
		p.touchID = -1
		return false, p.lastX, p.lastY
	}

	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		p.touchID = ids[0]
		p.tracking = true
		p.lastX, p.lastY = ebiten.TouchPosition(p.touchID)
		return true, p.lastX, p.lastY
	}

	x, y := ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y
}

// ============================================================================
// 拖拽跟踪器 - 将逐帧指针采样转换为拖拽开始/移动/结束
// ============================================================================

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下，只持续一帧）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放，只持续一帧）
	DragStateEnded
)

func (s DragState) String() string {
	switch s {
	case DragStateStarted:
		return "started"
	case DragStateDragging:
		return "dragging"
	case DragStateEnded:
		return "ended"
	}
	return "none"
}

// velocitySmoothing 速度指数平滑系数（新采样权重）
const velocitySmoothing = 0.6

// DragInfo 拖拽信息
type DragInfo struct {
	// State 当前拖拽状态
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（屏幕坐标）
	CurrentX, CurrentY int
	// VX, VY 平滑后的速度（像素/秒）
	VX, VY float64
}

// DragTracker 拖拽跟踪器
//
// 每帧调用一次 Update。Started 与 Ended 状态各只持续一帧，
// 调用方可以据此产生拖拽开始/释放事件。
type DragTracker struct {
	source PointerSource
	info   DragInfo
}

// NewDragTracker 创建拖拽跟踪器
// source 为 nil 时使用 Ebitengine 输入
func NewDragTracker(source PointerSource) *DragTracker {
	if source == nil {
		source = NewEbitenPointer()
	}
	return &DragTracker{source: source}
}

// Update 采样指针并推进拖拽状态
//
// 参数：
//   - deltaTime: 距离上一帧的秒数，用于估算速度
func (tr *DragTracker) Update(deltaTime float64) {
	pressed, x, y := tr.source.Pointer()

	switch tr.info.State {
	case DragStateNone, DragStateEnded:
		if pressed {
			tr.info = DragInfo{
				State:    DragStateStarted,
				StartX:   x,
				StartY:   y,
				CurrentX: x,
				CurrentY: y,
			}
			return
		}
		tr.info.State = DragStateNone

	case DragStateStarted, DragStateDragging:
		tr.trackVelocity(x, y, deltaTime)
		tr.info.CurrentX, tr.info.CurrentY = x, y
		if pressed {
			tr.info.State = DragStateDragging
		} else {
			tr.info.State = DragStateEnded
		}
	}
}

func (tr *DragTracker) trackVelocity(x, y int, deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	vx := float64(x-tr.info.CurrentX) / deltaTime
	vy := float64(y-tr.info.CurrentY) / deltaTime
	tr.info.VX = Lerp(tr.info.VX, vx, velocitySmoothing)
	tr.info.VY = Lerp(tr.info.VY, vy, velocitySmoothing)
}

// Reset 重置拖拽状态
func (tr *DragTracker) Reset() {
	tr.info = DragInfo{}
}

// GetState 获取当前拖拽状态
func (tr *DragTracker) GetState() DragState {
	return tr.info.State
}

// GetInfo 获取完整拖拽信息
func (tr *DragTracker) GetInfo() DragInfo {
	return tr.info
}

// IsDragging 指针是否处于按下状态（含开始帧）
func (tr *DragTracker) IsDragging() bool {
	return tr.info.State == DragStateStarted || tr.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (tr *DragTracker) JustStarted() bool {
	return tr.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (tr *DragTracker) JustEnded() bool {
	return tr.info.State == DragStateEnded
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (tr *DragTracker) GetDragDistance() (dx, dy int) {
	return tr.info.CurrentX - tr.info.StartX, tr.info.CurrentY - tr.info.StartY
}

// GetVelocity 获取平滑后的拖拽速度（像素/秒）
func (tr *DragTracker) GetVelocity() (vx, vy float64) {
	return tr.info.VX, tr.info.VY
}
