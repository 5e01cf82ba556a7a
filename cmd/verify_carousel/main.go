// cmd/verify_carousel/main.go
// 轮播手势验证程序 - 无窗口运行脚本化场景，打印状态变化与滑动完成通知
//
// 用法：
//   go run ./cmd/verify_carousel
//   go run ./cmd/verify_carousel --verbose --run lock

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/decker502/cubenav/pkg/carousel"
)

const (
	panelCount = 4
	unit       = 320.0
	dt         = 1.0 / 60
	maxFrames  = 1200
)

var (
	verbose = flag.Bool("verbose", false, "显示控制器日志")
	only    = flag.String("run", "", "只运行名称包含该字符串的场景")
)

// world 一次场景运行的控制器与记录
type world struct {
	gc      *carousel.GestureController
	notices []float64
	last    carousel.GestureState
}

func newWorld(opts carousel.GestureOptions) *world {
	w := &world{}
	opts.AfterSwipe = func(destination, fractionalIndex float64) {
		fmt.Printf("    notify: destination=%.1f index=%.2f\n", destination, fractionalIndex)
		w.notices = append(w.notices, fractionalIndex)
	}
	w.gc = carousel.NewGestureController(
		carousel.NewPageLayout(panelCount, unit),
		carousel.NewAnimationDriver(60),
		opts,
	)
	w.last = w.gc.State()
	return w
}

// observe 状态变化时打印一行
func (w *world) observe(frame int) {
	if s := w.gc.State(); s != w.last {
		fmt.Printf("    frame %4d: %s -> %s (offset %.1f)\n", frame, w.last, s, w.gc.Offset())
		w.last = s
	}
}

func (w *world) drag(dx float64) carousel.ReleaseResult {
	w.gc.OnDragStart()
	w.observe(0)
	const steps = 6
	for i := 1; i <= steps; i++ {
		w.gc.OnDragMove(dx * float64(i) / steps)
	}
	r := w.gc.OnDragRelease(dx, dx/(steps*dt))
	fmt.Printf("    release dx=%.0f: bias=%.0f page=%d blocked=%v\n", dx, r.Bias, r.Page, r.Blocked)
	w.observe(0)
	return r
}

// settle 推进到回弹停止，最多 frames 帧
func (w *world) settle(frames int) {
	for i := 1; i <= frames && w.gc.State() == carousel.StateSettling; i++ {
		w.gc.Update(dt)
		w.observe(i)
	}
}

type scenario struct {
	name string
	run  func() error
}

func expectOffset(w *world, want float64) error {
	if math.Abs(w.gc.Offset()-want) > 0.5 {
		return fmt.Errorf("offset = %.2f, want %.1f", w.gc.Offset(), want)
	}
	return nil
}

var scenarios = []scenario{
	{"swipe-next", func() error {
		w := newWorld(carousel.DefaultGestureOptions())
		r := w.drag(-60)
		if r.Page != 1 || r.Destination != -unit {
			return fmt.Errorf("release = %+v, want page 1", r)
		}
		w.settle(maxFrames)
		if len(w.notices) != 1 || w.notices[0] != 1 {
			return fmt.Errorf("notices = %v, want [1]", w.notices)
		}
		return expectOffset(w, -unit)
	}},
	{"small-drag-snaps-back", func() error {
		w := newWorld(carousel.DefaultGestureOptions())
		r := w.drag(-30)
		if r.Page != 0 || r.Bias != 0 {
			return fmt.Errorf("release = %+v, want page 0 without bias", r)
		}
		w.settle(maxFrames)
		return expectOffset(w, 0)
	}},
	{"drag-before-first-page", func() error {
		w := newWorld(carousel.DefaultGestureOptions())
		w.gc.OnDragStart()
		w.gc.OnDragMove(120)
		if err := expectOffset(w, 0); err != nil {
			return err
		}
		w.gc.OnDragRelease(120, 0)
		w.settle(maxFrames)
		return expectOffset(w, 0)
	}},
	{"lock-blocks-release", func() error {
		opts := carousel.DefaultGestureOptions()
		lock := 2
		opts.LockPage = &lock
		w := newWorld(opts)
		if err := w.gc.ScrollTo(3, false); err != nil {
			return err
		}
		r := w.drag(-10)
		if !r.Blocked {
			return fmt.Errorf("release = %+v, want blocked", r)
		}
		if w.gc.Driver().IsAnimating() || w.gc.State() != carousel.StateIdle {
			return fmt.Errorf("blocked release should leave the carousel idle")
		}
		return expectOffset(w, -3*unit)
	}},
	{"lock-stops-drag", func() error {
		opts := carousel.DefaultGestureOptions()
		lock := 1
		opts.LockPage = &lock
		w := newWorld(opts)
		w.gc.OnDragStart()
		w.gc.OnDragMove(-200)
		w.gc.OnDragMove(-400)
		return expectOffset(w, -200)
	}},
	{"scroll-to-immediate", func() error {
		w := newWorld(carousel.DefaultGestureOptions())
		if err := w.gc.ScrollTo(2, false); err != nil {
			return err
		}
		if w.gc.Driver().IsAnimating() {
			return fmt.Errorf("immediate scroll should not animate")
		}
		if err := w.gc.ScrollTo(panelCount, false); err == nil {
			return fmt.Errorf("expected out of range error")
		}
		return expectOffset(w, -2*unit)
	}},
	{"scroll-to-animated", func() error {
		w := newWorld(carousel.DefaultGestureOptions())
		if err := w.gc.ScrollTo(3, true); err != nil {
			return err
		}
		for i := 1; i <= maxFrames && w.gc.Driver().IsAnimating(); i++ {
			w.gc.Update(dt)
			w.observe(i)
		}
		if len(w.notices) != 0 {
			return fmt.Errorf("programmatic scroll should not notify, got %v", w.notices)
		}
		return expectOffset(w, -3*unit)
	}},
	{"notify-after-delay", func() error {
		opts := carousel.DefaultGestureOptions()
		opts.NotifyMode = carousel.NotifyAfterDelay
		opts.AfterSwipeDelay = 0.1
		w := newWorld(opts)
		w.drag(-80)
		frames := 0
		for frames < maxFrames && len(w.notices) == 0 {
			frames++
			w.gc.Update(dt)
			w.observe(frames)
		}
		if len(w.notices) != 1 {
			return fmt.Errorf("notices = %v, want one", w.notices)
		}
		if !w.gc.Driver().IsAnimating() {
			log.Printf("[VerifyCarousel] spring settled before the delay elapsed")
		}
		fmt.Printf("    notified after %d frames\n", frames)
		return nil
	}},
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	failed := 0
	for _, s := range scenarios {
		if *only != "" && !strings.Contains(s.name, *only) {
			continue
		}
		fmt.Printf("▶ %s\n", s.name)
		if err := s.run(); err != nil {
			failed++
			fmt.Printf("  ✗ %v\n", err)
			continue
		}
		fmt.Println("  ✓ ok")
	}

	if failed > 0 {
		fmt.Printf("%d 个场景失败\n", failed)
		os.Exit(1)
	}
	fmt.Println("全部场景通过")
}
