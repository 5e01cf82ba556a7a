package carousel

import (
	"errors"
	"fmt"
	"log"
)

// ErrPageOutOfRange ScrollTo 的页码不在 [0, N) 内
var ErrPageOutOfRange = errors.New("carousel: page index out of range")

// 手势默认参数
const (
	// DefaultSwipeThreshold 释放时产生方向偏置所需的最小水平位移
	DefaultSwipeThreshold = 50.0
	// DefaultAfterSwipeDelay NotifyAfterDelay 模式下的通知延迟（秒）
	DefaultAfterSwipeDelay = 0.5
)

// GestureState 手势控制器状态
type GestureState int

const (
	// StateIdle 静止（偏移停在某页上，或被锁定保护冻结在拖拽结束位置）
	StateIdle GestureState = iota
	// StateDragging 拖拽中
	StateDragging
	// StateSettling 释放后的回弹动画中
	StateSettling
)

func (s GestureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSettling:
		return "settling"
	}
	return fmt.Sprintf("GestureState(%d)", int(s))
}

// NotifyMode 滑动完成通知的触发方式
type NotifyMode int

const (
	// NotifyOnSettle 弹簧动画真正静止时通知（默认）
	NotifyOnSettle NotifyMode = iota
	// NotifyAfterDelay 释放后固定延迟通知（与旧实现保持一致，可能早于动画结束）
	NotifyAfterDelay
)

func (m NotifyMode) String() string {
	if m == NotifyAfterDelay {
		return "delay"
	}
	return "settle"
}

// AfterSwipeFunc 滑动完成回调
//
// 参数：
//   - destination: 目标页偏移
//   - fractionalIndex: |destination / unit|
type AfterSwipeFunc func(destination, fractionalIndex float64)

// GestureOptions 手势控制器配置
type GestureOptions struct {
	SwipeThreshold  float64      // 方向偏置阈值，<= 0 时使用 DefaultSwipeThreshold
	ReleaseSpring   SpringConfig // 释放回弹参数
	ScrollSpring    SpringConfig // ScrollTo 回弹参数
	NotifyMode      NotifyMode
	AfterSwipeDelay float64 // 秒，<= 0 时使用 DefaultAfterSwipeDelay
	LockPage        *int    // 最后一个可拖拽到达的页码，nil 表示不锁定
	AfterSwipe      AfterSwipeFunc
}

// DefaultGestureOptions 返回默认配置
func DefaultGestureOptions() GestureOptions {
	return GestureOptions{
		SwipeThreshold:  DefaultSwipeThreshold,
		ReleaseSpring:   ReleaseSpring,
		ScrollSpring:    ScrollSpring,
		NotifyMode:      NotifyOnSettle,
		AfterSwipeDelay: DefaultAfterSwipeDelay,
	}
}

// ReleaseResult 一次释放手势的结果
type ReleaseResult struct {
	Bias        float64 // 方向偏置
	Destination float64 // 吸附得到的目标偏移
	Page        int     // 目标页码
	Blocked     bool    // 目标越过锁定页，本次释放被忽略
}

// pendingNotify 等待触发的滑动完成通知
type pendingNotify struct {
	destination float64
	remaining   float64 // NotifyAfterDelay 模式下剩余秒数
}

// GestureController 手势控制器
//
// 独占滚动偏移：拖拽期间写入受限的偏移，释放时吸附到最近页并驱动弹簧动画。
// 所有方法都在帧循环线程上调用，不做加锁。
type GestureController struct {
	layout *PageLayout
	driver *AnimationDriver
	opts   GestureOptions

	state        GestureState
	lockBoundary float64
	lockPage     int
	hasLock      bool

	// pending 尚未触发的滑动完成通知
	// NotifyOnSettle 模式下最多一条；NotifyAfterDelay 模式下每次释放各占一条
	pending []pendingNotify

	// animGen 动画代数，用于忽略已被取代的动画回调
	animGen int
}

// NewGestureController 创建手势控制器
//
// 参数：
//   - layout: 页面布局
//   - driver: 动画驱动器（由控制器独占）
//   - opts: 配置
func NewGestureController(layout *PageLayout, driver *AnimationDriver, opts GestureOptions) *GestureController {
	if opts.SwipeThreshold <= 0 {
		opts.SwipeThreshold = DefaultSwipeThreshold
	}
	if opts.AfterSwipeDelay <= 0 {
		opts.AfterSwipeDelay = DefaultAfterSwipeDelay
	}
	if !opts.ReleaseSpring.Valid() {
		opts.ReleaseSpring = ReleaseSpring
	}
	if !opts.ScrollSpring.Valid() {
		opts.ScrollSpring = ScrollSpring
	}

	gc := &GestureController{
		layout: layout,
		driver: driver,
		opts:   opts,
		state:  StateIdle,
	}
	if opts.LockPage != nil {
		gc.SetLockPage(*opts.LockPage)
	} else {
		gc.ClearLockPage()
	}
	return gc
}

// Layout 返回页面布局
func (gc *GestureController) Layout() *PageLayout {
	return gc.layout
}

// Driver 返回动画驱动器
func (gc *GestureController) Driver() *AnimationDriver {
	return gc.driver
}

// State 返回当前状态
func (gc *GestureController) State() GestureState {
	return gc.state
}

// Offset 返回实时滚动偏移（供页码指示器等外部反馈读取）
func (gc *GestureController) Offset() float64 {
	return gc.driver.Current()
}

// FractionalIndex 返回实时偏移对应的小数页码
func (gc *GestureController) FractionalIndex() float64 {
	return gc.layout.FractionalIndex(gc.Offset())
}

// CurrentPage 返回距离实时偏移最近的页码
func (gc *GestureController) CurrentPage() int {
	i, _ := ResolveIndex(gc.Offset(), gc.layout.offsets)
	return i
}

// SetAfterSwipe 设置滑动完成回调
func (gc *GestureController) SetAfterSwipe(fn AfterSwipeFunc) {
	gc.opts.AfterSwipe = fn
}

// SetNotifyMode 切换滑动完成通知方式
func (gc *GestureController) SetNotifyMode(mode NotifyMode) {
	gc.opts.NotifyMode = mode
}

// NotifyMode 返回当前通知方式
func (gc *GestureController) NotifyMode() NotifyMode {
	return gc.opts.NotifyMode
}

// SetLockPage 设置最后一个可通过拖拽到达的页码
// 越界页码退化为最后一页
func (gc *GestureController) SetLockPage(page int) {
	if !gc.layout.ValidIndex(page) {
		log.Printf("[Carousel] Lock page %d out of range [0, %d), using last page", page, gc.layout.Count())
		page = gc.layout.Count() - 1
	}
	gc.lockPage = page
	gc.hasLock = true
	gc.lockBoundary = gc.layout.Offset(page)
}

// ClearLockPage 取消锁定（边界回到最后一页）
func (gc *GestureController) ClearLockPage() {
	gc.hasLock = false
	gc.lockPage = gc.layout.Count() - 1
	gc.lockBoundary = gc.layout.Last()
}

// LockPage 返回当前锁定页码及是否显式设置
func (gc *GestureController) LockPage() (int, bool) {
	return gc.lockPage, gc.hasLock
}

// LockBoundary 返回当前生效的拖拽边界
func (gc *GestureController) LockBoundary() float64 {
	return gc.lockBoundary
}

// OnDragStart 拖拽开始
//
// 中断进行中的回弹动画（保留插值），记录当前偏移作为零点。
func (gc *GestureController) OnDragStart() {
	if gc.state == StateDragging {
		log.Printf("[Carousel] Drag start while already dragging, recapturing zero point")
	}

	gc.driver.CaptureOffset()

	gc.state = StateDragging
	// 新的拖拽会取代尚未触发的 settle 通知
	if gc.opts.NotifyMode == NotifyOnSettle {
		gc.pending = nil
	}
}

// OnDragMove 拖拽移动
//
// 候选偏移 = 零点 + dx。越过第一页或锁定边界时本帧更新被丢弃，
// 偏移保持在最近一次合法值。
//
// 参数：
//   - dx: 自拖拽开始以来的水平位移
func (gc *GestureController) OnDragMove(dx float64) {
	if gc.state != StateDragging {
		return
	}

	candidate := gc.driver.Offset() + dx
	if candidate > gc.layout.First() || candidate < gc.lockBoundary {
		return
	}

	gc.driver.SetValue(dx)
}

// OnDragRelease 拖拽释放
//
// 参数：
//   - dx: 自拖拽开始以来的总水平位移
//   - vx: 释放时的水平速度（仅记录，回弹从静止开始）
//
// 返回：
//   - ReleaseResult: 吸附目标与是否被锁定保护拦截
func (gc *GestureController) OnDragRelease(dx, vx float64) ReleaseResult {
	if gc.state != StateDragging {
		return ReleaseResult{Page: gc.CurrentPage(), Destination: gc.Offset()}
	}

	bias := 0.0
	if dx > gc.opts.SwipeThreshold {
		bias = gc.layout.Unit() / 2
	} else if dx < -gc.opts.SwipeThreshold {
		bias = -gc.layout.Unit() / 2
	}

	page, destination := ResolveIndex(gc.Offset()+bias, gc.layout.offsets)
	result := ReleaseResult{
		Bias:        bias,
		Destination: destination,
		Page:        page,
	}

	// TODO: 确认产品行为后，考虑改为回弹到锁定页而不是停在拖拽结束位置
	if page > gc.lockPage {
		result.Blocked = true
		gc.state = StateIdle
		log.Printf("[Carousel] Release blocked: page %d is beyond lock page %d, offset stays at %.1f",
			page, gc.lockPage, gc.Offset())
		return result
	}

	log.Printf("[Carousel] Release dx=%.1f vx=%.1f bias=%.1f -> page %d (%.1f)", dx, vx, bias, page, destination)

	gc.driver.FlattenOffset()
	notice := pendingNotify{destination: destination, remaining: gc.opts.AfterSwipeDelay}
	if gc.opts.NotifyMode == NotifyAfterDelay {
		gc.pending = append(gc.pending, notice)
	} else {
		gc.pending = []pendingNotify{notice}
	}
	gc.startAnimation(destination, gc.opts.ReleaseSpring, func(finished bool) {
		gc.onSettled(destination, finished)
	})
	return result
}

// startAnimation 进入 Settling 并启动弹簧动画
// 回调只对最新一次动画生效
func (gc *GestureController) startAnimation(target float64, cfg SpringConfig, onDone func(finished bool)) {
	gc.animGen++
	gen := gc.animGen
	gc.state = StateSettling
	gc.driver.AnimateTo(target, cfg, func(finished bool) {
		if gen != gc.animGen {
			return
		}
		if gc.state == StateSettling {
			gc.state = StateIdle
		}
		if onDone != nil {
			onDone(finished)
		}
	})
}

// onSettled 释放回弹结束（自然静止或被中断）
func (gc *GestureController) onSettled(destination float64, finished bool) {
	if gc.opts.NotifyMode != NotifyOnSettle || len(gc.pending) == 0 {
		return
	}
	if gc.pending[len(gc.pending)-1].destination != destination {
		return
	}
	gc.pending = nil
	if finished {
		gc.fireAfterSwipe(destination)
	}
}

// ScrollTo 程序化跳转到指定页
//
// 参数：
//   - page: 目标页码，必须在 [0, N) 内
//   - animated: true 使用 ScrollSpring 回弹，false 立即设置
//
// 返回：
//   - error: 页码越界时返回 ErrPageOutOfRange（不做截断）
func (gc *GestureController) ScrollTo(page int, animated bool) error {
	if !gc.layout.ValidIndex(page) {
		err := fmt.Errorf("scroll to page %d (count %d): %w", page, gc.layout.Count(), ErrPageOutOfRange)
		log.Printf("[Carousel] %v", err)
		return err
	}

	target := gc.layout.Offset(page)
	log.Printf("[Carousel] Scroll to page %d (%.1f), animated=%v", page, target, animated)

	if gc.opts.NotifyMode == NotifyOnSettle {
		gc.pending = nil
	}
	if !animated {
		gc.animGen++
		gc.driver.SetImmediate(target)
		gc.state = StateIdle
		return nil
	}

	gc.startAnimation(target, gc.opts.ScrollSpring, nil)
	return nil
}

// Update 推进动画与延迟通知
//
// 参数：
//   - dt: 距离上一帧的秒数
func (gc *GestureController) Update(dt float64) {
	gc.driver.Update(dt)

	if len(gc.pending) == 0 || gc.opts.NotifyMode != NotifyAfterDelay {
		return
	}

	// 先整理队列再回调，回调中再次释放追加的通知不会被本轮处理
	var due []float64
	kept := gc.pending[:0]
	for _, n := range gc.pending {
		n.remaining -= dt
		if n.remaining <= 0 {
			due = append(due, n.destination)
			continue
		}
		kept = append(kept, n)
	}
	gc.pending = kept
	for _, destination := range due {
		gc.fireAfterSwipe(destination)
	}
}

func (gc *GestureController) fireAfterSwipe(destination float64) {
	if gc.opts.AfterSwipe == nil {
		return
	}
	gc.opts.AfterSwipe(destination, gc.layout.FractionalIndex(destination))
}
