package systems

import (
	"log"
	"math"

	"github.com/decker502/cubenav/pkg/components"
	"github.com/decker502/cubenav/pkg/ecs"
	"github.com/decker502/cubenav/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyInput 键盘输入接口
// 用于依赖注入，支持测试时 mock
type KeyInput interface {
	IsKeyJustPressed(key ebiten.Key) bool
}

// ebitenKeyInput Ebitengine 默认实现
type ebitenKeyInput struct{}

func (e *ebitenKeyInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// DefaultKeyInput 返回 Ebitengine 键盘输入
func DefaultKeyInput() KeyInput {
	return &ebitenKeyInput{}
}

// CarouselInputSystem 轮播输入系统
//
// 职责：
//   - 将指针按下/移动/释放转换为控制器的拖拽事件
//   - 水平位移超过捕获阈值后才接管拖拽，之前的移动不影响轮播
//   - 方向键/Home/End 调用 ScrollTo 动画跳转
type CarouselInputSystem struct {
	entityManager    *ecs.EntityManager
	tracker          *utils.DragTracker
	keys             KeyInput
	captureThreshold float64
}

// NewCarouselInputSystem 创建使用 Ebitengine 输入的轮播输入系统
func NewCarouselInputSystem(em *ecs.EntityManager, captureThreshold float64) *CarouselInputSystem {
	return NewCarouselInputSystemWithInput(em, nil, DefaultKeyInput(), captureThreshold)
}

// NewCarouselInputSystemWithInput 创建带自定义输入的轮播输入系统（用于测试）
//
// 参数：
//   - pointer: 指针输入，nil 时使用 Ebitengine 输入
//   - keys: 键盘输入，nil 时忽略键盘
func NewCarouselInputSystemWithInput(em *ecs.EntityManager, pointer utils.PointerSource, keys KeyInput, captureThreshold float64) *CarouselInputSystem {
	return &CarouselInputSystem{
		entityManager:    em,
		tracker:          utils.NewDragTracker(pointer),
		keys:             keys,
		captureThreshold: captureThreshold,
	}
}

// Update 采样输入并驱动所有轮播
func (s *CarouselInputSystem) Update(deltaTime float64) {
	s.tracker.Update(deltaTime)

	for _, id := range ecs.GetEntitiesWith1[*components.CarouselComponent](s.entityManager) {
		comp, ok := ecs.GetComponent[*components.CarouselComponent](s.entityManager, id)
		if !ok || comp.Controller == nil {
			continue
		}
		s.handlePointer(comp)
		if !comp.Captured && !s.tracker.IsDragging() {
			s.handleKeys(comp)
		}
	}
}

func (s *CarouselInputSystem) handlePointer(comp *components.CarouselComponent) {
	dx, _ := s.tracker.GetDragDistance()

	state := s.tracker.GetState()
	if comp.IgnorePress && state != utils.DragStateStarted {
		if state == utils.DragStateEnded {
			comp.IgnorePress = false
		}
		return
	}

	switch state {
	case utils.DragStateStarted:
		comp.Captured = false
		comp.IgnorePress = false

	case utils.DragStateDragging:
		if !comp.Captured {
			if math.Abs(float64(dx)) <= s.captureThreshold {
				return
			}
			comp.Captured = true
			comp.Controller.OnDragStart()
		}
		comp.Controller.OnDragMove(float64(dx))

	case utils.DragStateEnded:
		if !comp.Captured {
			return
		}
		comp.Captured = false
		vx, _ := s.tracker.GetVelocity()
		comp.Controller.OnDragRelease(float64(dx), vx)
	}
}

func (s *CarouselInputSystem) handleKeys(comp *components.CarouselComponent) {
	if s.keys == nil {
		return
	}

	gc := comp.Controller
	count := gc.Layout().Count()
	page := s.targetPage(comp)

	target := page
	switch {
	case s.keys.IsKeyJustPressed(ebiten.KeyArrowLeft):
		target = page - 1
	case s.keys.IsKeyJustPressed(ebiten.KeyArrowRight):
		target = page + 1
	case s.keys.IsKeyJustPressed(ebiten.KeyHome):
		target = 0
	case s.keys.IsKeyJustPressed(ebiten.KeyEnd):
		target = count - 1
	default:
		return
	}

	if target < 0 || target >= count || target == page {
		return
	}
	if err := gc.ScrollTo(target, true); err != nil {
		log.Printf("[CarouselInputSystem] ScrollTo failed: %v", err)
	}
}

// targetPage 动画进行中时以动画目标为当前页，连续按键可以逐页前进
func (s *CarouselInputSystem) targetPage(comp *components.CarouselComponent) int {
	gc := comp.Controller
	if gc.Driver().IsAnimating() {
		if i, ok := gc.Layout().IndexOf(gc.Driver().Target()); ok {
			return i
		}
	}
	return gc.CurrentPage()
}
