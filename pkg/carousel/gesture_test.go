package carousel

import (
	"errors"
	"math"
	"testing"
)

type swipeCall struct {
	destination float64
	fraction    float64
}

func newTestController(count int, unit float64, opts GestureOptions) (*GestureController, *[]swipeCall) {
	var calls []swipeCall
	opts.AfterSwipe = func(destination, fraction float64) {
		calls = append(calls, swipeCall{destination, fraction})
	}
	gc := NewGestureController(NewPageLayout(count, unit), NewAnimationDriver(60), opts)
	return gc, &calls
}

func settle(t *testing.T, gc *GestureController, maxFrames int) {
	t.Helper()
	for i := 0; i < maxFrames; i++ {
		gc.Update(testDT)
		if gc.State() != StateSettling {
			return
		}
	}
	t.Fatalf("controller still settling after %d frames (offset %v)", maxFrames, gc.Offset())
}

// TestGestureController_DragWithinBounds 测试拖拽时偏移跟随手指
func TestGestureController_DragWithinBounds(t *testing.T) {
	gc, _ := newTestController(4, 320, DefaultGestureOptions())
	if err := gc.ScrollTo(1, false); err != nil {
		t.Fatal(err)
	}

	gc.OnDragStart()
	if gc.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", gc.State())
	}
	gc.OnDragMove(-100)
	if gc.Offset() != -420 {
		t.Errorf("offset = %v, want -420", gc.Offset())
	}
	gc.OnDragMove(200)
	if gc.Offset() != -120 {
		t.Errorf("offset = %v, want -120", gc.Offset())
	}
}

// TestGestureController_DragStartKeepsValue 测试拖拽开始时订阅者看到的值保持不变
func TestGestureController_DragStartKeepsValue(t *testing.T) {
	gc, _ := newTestController(4, 320, DefaultGestureOptions())
	if err := gc.ScrollTo(1, false); err != nil {
		t.Fatalf("ScrollTo() error: %v", err)
	}

	var values []float64
	gc.Driver().Subscribe(func(v float64) { values = append(values, v) })

	gc.OnDragStart()
	for _, v := range values {
		if v != -320 {
			t.Fatalf("notified %v during drag start, want only -320 (all: %v)", v, values)
		}
	}
	if gc.Offset() != -320 || gc.Driver().Offset() != -320 {
		t.Errorf("offset = %v zero point = %v, want -320 / -320", gc.Offset(), gc.Driver().Offset())
	}

	gc.OnDragMove(-40)
	if last := values[len(values)-1]; last != -360 {
		t.Errorf("last notification = %v, want -360", last)
	}
}

// TestGestureController_DragBeyondFirstPage 测试越过第一页的拖拽被丢弃
func TestGestureController_DragBeyondFirstPage(t *testing.T) {
	gc, _ := newTestController(4, 320, DefaultGestureOptions())

	gc.OnDragStart()
	gc.OnDragMove(30)
	if gc.Offset() != 0 {
		t.Errorf("offset = %v, want 0 (drag right on first page ignored)", gc.Offset())
	}

	gc.OnDragMove(-20)
	gc.OnDragMove(15)
	if gc.Offset() != -20 {
		t.Errorf("offset = %v, want last valid value -20", gc.Offset())
	}
}

// TestGestureController_DragBeyondLastPage 测试越过最后一页的拖拽被丢弃
func TestGestureController_DragBeyondLastPage(t *testing.T) {
	gc, _ := newTestController(4, 320, DefaultGestureOptions())
	if err := gc.ScrollTo(3, false); err != nil {
		t.Fatal(err)
	}

	gc.OnDragStart()
	gc.OnDragMove(-5)
	if gc.Offset() != -960 {
		t.Errorf("offset = %v, want -960", gc.Offset())
	}
}

// TestGestureController_ReleaseWithBias 测试释放方向偏置后吸附到下一页，并在静止后通知
func TestGestureController_ReleaseWithBias(t *testing.T) {
	gc, calls := newTestController(4, 320, DefaultGestureOptions())

	gc.OnDragStart()
	gc.OnDragMove(-60)
	res := gc.OnDragRelease(-60, -0.5)

	if res.Blocked {
		t.Fatal("release should not be blocked")
	}
	if res.Bias != -160 || res.Destination != -320 || res.Page != 1 {
		t.Errorf("release result = %+v, want bias -160 -> page 1 (-320)", res)
	}
	if gc.State() != StateSettling {
		t.Errorf("state = %v, want settling", gc.State())
	}
	if len(*calls) != 0 {
		t.Error("after-swipe fired before the animation settled")
	}

	settle(t, gc, 600)

	if gc.Offset() != -320 {
		t.Errorf("settled offset = %v, want -320", gc.Offset())
	}
	if gc.State() != StateIdle {
		t.Errorf("state = %v, want idle", gc.State())
	}
	if len(*calls) != 1 {
		t.Fatalf("after-swipe called %d times, want 1", len(*calls))
	}
	if c := (*calls)[0]; c.destination != -320 || c.fraction != 1 {
		t.Errorf("after-swipe(%v, %v), want (-320, 1)", c.destination, c.fraction)
	}
	if gc.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, want 1", gc.CurrentPage())
	}
}

// TestGestureController_ReleaseSmallDrag 测试小幅拖拽不产生偏置，回弹到原页
func TestGestureController_ReleaseSmallDrag(t *testing.T) {
	gc, calls := newTestController(4, 320, DefaultGestureOptions())
	if err := gc.ScrollTo(2, false); err != nil {
		t.Fatal(err)
	}

	gc.OnDragStart()
	gc.OnDragMove(40)
	res := gc.OnDragRelease(40, 0)
	if res.Bias != 0 || res.Page != 2 {
		t.Errorf("release result = %+v, want no bias, page 2", res)
	}

	settle(t, gc, 600)
	if gc.Offset() != -640 {
		t.Errorf("offset = %v, want -640", gc.Offset())
	}
	if len(*calls) != 1 || (*calls)[0].fraction != 2 {
		t.Errorf("after-swipe calls = %+v, want one call with index 2", *calls)
	}
}

// TestGestureController_ReleaseTieGoesToEarlierPage 测试恰好在两页中点时小页码胜出
func TestGestureController_ReleaseTieGoesToEarlierPage(t *testing.T) {
	gc, _ := newTestController(4, 320, DefaultGestureOptions())

	gc.OnDragStart()
	res := gc.OnDragRelease(-60, 0)
	// 偏移 0 + 偏置 -160 = -160，与第 0、1 页等距
	if res.Page != 0 || res.Destination != 0 {
		t.Errorf("release result = %+v, want page 0", res)
	}
}

// TestGestureController_NotifyAfterDelay 测试固定延迟通知模式
func TestGestureController_NotifyAfterDelay(t *testing.T) {
	opts := DefaultGestureOptions()
	opts.NotifyMode = NotifyAfterDelay
	gc, calls := newTestController(4, 320, opts)

	gc.OnDragStart()
	gc.OnDragMove(-60)
	gc.OnDragRelease(-60, 0)

	// 0.5 秒前不触发
	for i := 0; i < 29; i++ {
		gc.Update(testDT)
	}
	if len(*calls) != 0 {
		t.Fatalf("after-swipe fired early after 29 frames")
	}

	for i := 0; i < 2; i++ {
		gc.Update(testDT)
	}
	if len(*calls) != 1 {
		t.Fatalf("after-swipe called %d times after 0.5s, want 1", len(*calls))
	}
	if c := (*calls)[0]; c.destination != -320 || c.fraction != 1 {
		t.Errorf("after-swipe(%v, %v), want (-320, 1)", c.destination, c.fraction)
	}

	// 动画结束后不再重复通知
	settle(t, gc, 600)
	if len(*calls) != 1 {
		t.Errorf("after-swipe called %d times, want 1", len(*calls))
	}
}

// TestGestureController_NotifyAfterDelayOverlapping 测试延迟期内连续释放时每次释放都会通知
func TestGestureController_NotifyAfterDelayOverlapping(t *testing.T) {
	opts := DefaultGestureOptions()
	opts.NotifyMode = NotifyAfterDelay
	gc, calls := newTestController(4, 320, opts)

	gc.OnDragStart()
	gc.OnDragMove(-60)
	gc.OnDragRelease(-60, 0)

	for i := 0; i < 10; i++ {
		gc.Update(testDT)
	}

	// 回弹途中再次拖拽，停在 -600 后释放，吸附到第 2 页
	gc.OnDragStart()
	dx := -600 - gc.Offset()
	gc.OnDragMove(dx)
	if res := gc.OnDragRelease(dx, 0); res.Page != 2 {
		t.Fatalf("second release page = %d, want 2", res.Page)
	}

	for i := 0; i < 120; i++ {
		gc.Update(testDT)
	}

	want := []swipeCall{{-320, 1}, {-640, 2}}
	if len(*calls) != len(want) {
		t.Fatalf("after-swipe calls = %v, want %v", *calls, want)
	}
	for i, c := range *calls {
		if c != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, c, want[i])
		}
	}
}

// TestGestureController_LockPage 测试锁定页保护
func TestGestureController_LockPage(t *testing.T) {
	lock := 2
	opts := DefaultGestureOptions()
	opts.LockPage = &lock
	gc, _ := newTestController(5, 320, opts)

	if gc.LockBoundary() != -640 {
		t.Fatalf("LockBoundary() = %v, want -640", gc.LockBoundary())
	}
	if page, ok := gc.LockPage(); page != 2 || !ok {
		t.Fatalf("LockPage() = (%d, %v), want (2, true)", page, ok)
	}

	t.Run("拖拽不能越过锁定边界", func(t *testing.T) {
		if err := gc.ScrollTo(2, false); err != nil {
			t.Fatal(err)
		}
		gc.OnDragStart()
		gc.OnDragMove(-10)
		if gc.Offset() != -640 {
			t.Errorf("offset = %v, want -640", gc.Offset())
		}
		gc.OnDragRelease(-10, 0)
		settle(t, gc, 600)
	})

	t.Run("释放目标越过锁定页被忽略", func(t *testing.T) {
		// 拖拽过程中锁定页被收紧：释放时目标为第 3 页，已越过锁定页
		free, freeCalls := newTestController(5, 320, DefaultGestureOptions())
		if err := free.ScrollTo(2, false); err != nil {
			t.Fatal(err)
		}
		free.OnDragStart()
		free.OnDragMove(-260)
		before := free.Offset()
		if before != -900 {
			t.Fatalf("offset = %v, want -900", before)
		}
		free.SetLockPage(2)

		res := free.OnDragRelease(-260, 0)
		if !res.Blocked || res.Page != 3 || res.Destination != -960 {
			t.Fatalf("release result = %+v, want blocked at page 3 (-960)", res)
		}
		if free.State() != StateIdle {
			t.Errorf("state = %v, want idle", free.State())
		}
		if free.Driver().IsAnimating() {
			t.Error("blocked release should not animate")
		}

		for i := 0; i < 60; i++ {
			free.Update(testDT)
		}
		if free.Offset() != before {
			t.Errorf("offset moved from %v to %v", before, free.Offset())
		}
		if len(*freeCalls) != 0 {
			t.Errorf("after-swipe should not fire on blocked release: %+v", *freeCalls)
		}
	})

	t.Run("锁定页本身可以到达", func(t *testing.T) {
		if err := gc.ScrollTo(1, false); err != nil {
			t.Fatal(err)
		}
		gc.OnDragStart()
		gc.OnDragMove(-100)
		res := gc.OnDragRelease(-100, 0)
		if res.Blocked || res.Page != 2 {
			t.Fatalf("release result = %+v, want page 2", res)
		}
		settle(t, gc, 600)
		if gc.Offset() != -640 {
			t.Errorf("offset = %v, want -640", gc.Offset())
		}
	})

	t.Run("程序跳转不受锁定限制", func(t *testing.T) {
		if err := gc.ScrollTo(4, false); err != nil {
			t.Fatal(err)
		}
		if gc.Offset() != -1280 {
			t.Errorf("offset = %v, want -1280", gc.Offset())
		}
	})
}

// TestGestureController_LockPageFirst 测试锁定在第 0 页
func TestGestureController_LockPageFirst(t *testing.T) {
	lock := 0
	opts := DefaultGestureOptions()
	opts.LockPage = &lock
	gc, _ := newTestController(3, 320, opts)

	if gc.LockBoundary() != 0 {
		t.Fatalf("LockBoundary() = %v, want 0", gc.LockBoundary())
	}
	gc.OnDragStart()
	gc.OnDragMove(-50)
	if gc.Offset() != 0 {
		t.Errorf("offset = %v, want 0", gc.Offset())
	}
}

// TestGestureController_LockPageOutOfRange 测试越界锁定页退化为最后一页
func TestGestureController_LockPageOutOfRange(t *testing.T) {
	gc, _ := newTestController(3, 320, DefaultGestureOptions())
	gc.SetLockPage(10)
	if page, _ := gc.LockPage(); page != 2 || gc.LockBoundary() != -640 {
		t.Errorf("lock = (%d, %v), want (2, -640)", page, gc.LockBoundary())
	}

	gc.ClearLockPage()
	if _, ok := gc.LockPage(); ok {
		t.Error("ClearLockPage should clear the explicit lock")
	}
}

// TestGestureController_ScrollTo 测试程序化跳转
func TestGestureController_ScrollTo(t *testing.T) {
	t.Run("立即跳转", func(t *testing.T) {
		gc, calls := newTestController(4, 320, DefaultGestureOptions())
		if err := gc.ScrollTo(2, false); err != nil {
			t.Fatal(err)
		}
		if gc.Offset() != -640 {
			t.Errorf("offset = %v, want -640", gc.Offset())
		}
		if gc.State() != StateIdle {
			t.Errorf("state = %v, want idle", gc.State())
		}
		if len(*calls) != 0 {
			t.Error("ScrollTo should not fire after-swipe")
		}
	})

	t.Run("动画跳转", func(t *testing.T) {
		gc, calls := newTestController(4, 320, DefaultGestureOptions())
		if err := gc.ScrollTo(3, true); err != nil {
			t.Fatal(err)
		}
		if gc.State() != StateSettling {
			t.Errorf("state = %v, want settling", gc.State())
		}
		settle(t, gc, 600)
		if gc.Offset() != -960 {
			t.Errorf("offset = %v, want -960", gc.Offset())
		}
		if len(*calls) != 0 {
			t.Error("ScrollTo should not fire after-swipe")
		}
	})

	t.Run("越界页码", func(t *testing.T) {
		gc, _ := newTestController(4, 320, DefaultGestureOptions())
		for _, page := range []int{-1, 4, 100} {
			err := gc.ScrollTo(page, true)
			if !errors.Is(err, ErrPageOutOfRange) {
				t.Errorf("ScrollTo(%d) error = %v, want ErrPageOutOfRange", page, err)
			}
		}
		if gc.Offset() != 0 {
			t.Errorf("offset changed to %v", gc.Offset())
		}
	})
}

// TestGestureController_DragInterruptsSettle 测试拖拽打断回弹时偏移连续
func TestGestureController_DragInterruptsSettle(t *testing.T) {
	gc, calls := newTestController(4, 320, DefaultGestureOptions())

	gc.OnDragStart()
	gc.OnDragMove(-60)
	gc.OnDragRelease(-60, 0)
	for i := 0; i < 5; i++ {
		gc.Update(testDT)
	}
	mid := gc.Offset()
	if mid >= -60 || mid <= -320 {
		t.Fatalf("mid-settle offset = %v, want between -320 and -60", mid)
	}

	gc.OnDragStart()
	if gc.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", gc.State())
	}
	if gc.Offset() != mid {
		t.Errorf("drag start jumped from %v to %v", mid, gc.Offset())
	}
	gc.OnDragMove(10)
	if math.Abs(gc.Offset()-(mid+10)) > floatEpsilon {
		t.Errorf("offset = %v, want %v", gc.Offset(), mid+10)
	}

	// 被打断的回弹不再通知
	for i := 0; i < 120; i++ {
		gc.Update(testDT)
	}
	if len(*calls) != 0 {
		t.Errorf("interrupted settle fired after-swipe: %+v", *calls)
	}
	if gc.State() != StateDragging {
		t.Errorf("stale animation changed state to %v", gc.State())
	}
}

// TestGestureController_ReleaseWithoutDrag 测试未拖拽时释放无副作用
func TestGestureController_ReleaseWithoutDrag(t *testing.T) {
	gc, calls := newTestController(4, 320, DefaultGestureOptions())
	res := gc.OnDragRelease(-200, 0)
	if res.Page != 0 || gc.State() != StateIdle || gc.Driver().IsAnimating() {
		t.Errorf("release without drag changed state: %+v, %v", res, gc.State())
	}
	gc.OnDragMove(-100)
	if gc.Offset() != 0 || len(*calls) != 0 {
		t.Errorf("move without drag changed offset to %v", gc.Offset())
	}
}

// TestGestureState_String 测试状态名
func TestGestureState_String(t *testing.T) {
	if StateSettling.String() != "settling" || NotifyAfterDelay.String() != "delay" {
		t.Error("unexpected string names")
	}
}
