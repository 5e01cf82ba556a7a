package carousel

import (
	"math"
	"testing"
)

const floatEpsilon = 1e-9

func newTestMapper(t *testing.T, unit float64, factors PlatformFactors, seam float64) *TransformMapper {
	t.Helper()
	m, err := NewTransformMapper(unit, factors, seam)
	if err != nil {
		t.Fatalf("NewTransformMapper() error: %v", err)
	}
	return m
}

// TestTransformMapper_RestPosition 测试面板在自身静止位置时为单位变换
func TestTransformMapper_RestPosition(t *testing.T) {
	for _, factors := range []PlatformFactors{IOSFactors, AndroidFactors} {
		m := newTestMapper(t, 320, factors, 1)
		for i := 0; i < 5; i++ {
			tr := m.Map(i, -320*float64(i))
			if tr.RotateY != 0 || tr.TranslateX != 0 || tr.TranslateXAfterRotate != 0 {
				t.Errorf("panel %d at rest: got %+v, want zero rotation/translation", i, tr)
			}
			if tr.Opacity != 1 {
				t.Errorf("panel %d at rest: opacity = %v, want 1", i, tr.Opacity)
			}
			if tr.Perspective != 320 {
				t.Errorf("panel %d: perspective = %v, want 320", i, tr.Perspective)
			}
		}
	}
}

// TestTransformMapper_Breakpoints 测试各通道在断点处的输出
func TestTransformMapper_Breakpoints(t *testing.T) {
	const unit = 320.0
	m := newTestMapper(t, unit, AndroidFactors, 0)

	// 面板 1：pageX = -320，邻居断点为 -640 与 0
	tests := []struct {
		name       string
		scrollX    float64
		rotate     float64
		translate  float64
		postRotate float64
		opacity    float64
	}{
		{"滚到下一页（面板离开到左侧）", -640, -60, -unit / 1.5, -unit, 0},
		{"停在本页", -320, 0, 0, 0, 1},
		{"回到上一页（面板离开到右侧）", 0, 60, unit / 1.5, unit, 0},
		{"进入内侧断点", -640 + 10, -60 + 60*10/unit, -(unit / 1.5) * (1 - 10/unit), -unit / 1.7 * (1 - (10-0.1)/(unit-0.1)), 0.6},
		{"离开内侧断点", -250, 60 * (70 / unit), (unit / 1.5) * (70 / unit), unit / 1.7 * (70 / (unit - 0.1)), 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := m.Map(1, tt.scrollX)
			check := func(channel string, got, want float64) {
				if math.Abs(got-want) > 1e-6 {
					t.Errorf("%s at %v = %v, want %v", channel, tt.scrollX, got, want)
				}
			}
			check("rotate", tr.RotateY, tt.rotate)
			check("translate", tr.TranslateX, tt.translate)
			check("postRotate", tr.TranslateXAfterRotate, tt.postRotate)
			check("opacity", tr.Opacity, tt.opacity)
		})
	}
}

// TestTransformMapper_ChannelData 测试控制点数据（断点不对称性作为数据可测）
func TestTransformMapper_ChannelData(t *testing.T) {
	const unit = 400.0
	m := newTestMapper(t, unit, IOSFactors, 1)
	ch := m.Channels(2)
	pageX := -800.0

	if len(ch.PostTranslate) != 5 || len(ch.Opacity) != 5 {
		t.Fatalf("expected five-point curves, got %d / %d", len(ch.PostTranslate), len(ch.Opacity))
	}

	wantOpacityIn := []float64{pageX - unit, pageX - unit + 10, pageX, pageX + unit - 250, pageX + unit}
	wantOpacityOut := []float64{0, 0.6, 1, 0.6, 0}
	for i, p := range ch.Opacity {
		if p.In != wantOpacityIn[i] || p.Out != wantOpacityOut[i] {
			t.Errorf("opacity[%d] = %+v, want {%v %v}", i, p, wantOpacityIn[i], wantOpacityOut[i])
		}
	}

	wantPostIn := []float64{pageX - unit, pageX - unit + 0.1, pageX, pageX + unit - 0.1, pageX + unit}
	wantPostOut := []float64{-(unit + 1), -(unit + 1) / 2.38, 0, (unit + 1) / 2.38, unit + 1}
	for i, p := range ch.PostTranslate {
		if math.Abs(p.In-wantPostIn[i]) > floatEpsilon || math.Abs(p.Out-wantPostOut[i]) > floatEpsilon {
			t.Errorf("postTranslate[%d] = %+v, want {%v %v}", i, p, wantPostIn[i], wantPostOut[i])
		}
	}

	for name, c := range map[string]Curve{
		"rotation":      ch.Rotation,
		"translate":     ch.Translate,
		"postTranslate": ch.PostTranslate,
		"opacity":       ch.Opacity,
	} {
		if err := c.Validate(); err != nil {
			t.Errorf("%s curve invalid: %v", name, err)
		}
	}
}

// TestTransformMapper_ClampedFarAway 测试远离面板时输出保持在边界
func TestTransformMapper_ClampedFarAway(t *testing.T) {
	const unit = 320.0
	m := newTestMapper(t, unit, IOSFactors, 0)

	for _, scrollX := range []float64{-1e6, -5000, -1280, 960, 1e6} {
		tr := m.Map(1, scrollX)
		if math.Abs(tr.RotateY) > MaxRotation+floatEpsilon {
			t.Errorf("rotation %v out of range at %v", tr.RotateY, scrollX)
		}
		if math.Abs(tr.TranslateX) > unit/IOSFactors.Translate+floatEpsilon {
			t.Errorf("translate %v out of range at %v", tr.TranslateX, scrollX)
		}
		if math.Abs(tr.TranslateXAfterRotate) > unit+floatEpsilon {
			t.Errorf("postTranslate %v out of range at %v", tr.TranslateXAfterRotate, scrollX)
		}
		if tr.Opacity != 0 {
			t.Errorf("opacity %v at %v, want 0", tr.Opacity, scrollX)
		}
	}
}

// TestTransformMapper_OutputRangeSweep 扫描整个范围，所有通道不越界
func TestTransformMapper_OutputRangeSweep(t *testing.T) {
	const unit = 375.0
	m := newTestMapper(t, unit, AndroidFactors, 0)

	for x := -3 * unit; x <= 2*unit; x += 0.37 {
		tr := m.Map(1, x)
		if tr.Opacity < 0 || tr.Opacity > 1 {
			t.Fatalf("opacity %v out of [0,1] at %v", tr.Opacity, x)
		}
		if math.Abs(tr.RotateY) > MaxRotation {
			t.Fatalf("rotation %v out of range at %v", tr.RotateY, x)
		}
		if math.Abs(tr.TranslateXAfterRotate) > unit+floatEpsilon {
			t.Fatalf("postTranslate %v out of range at %v", tr.TranslateXAfterRotate, x)
		}
	}
}

// TestTransformMapper_NeighbourHandOff 测试相邻面板在交接时不透明度连续
func TestTransformMapper_NeighbourHandOff(t *testing.T) {
	const unit = 320.0
	m := newTestMapper(t, unit, IOSFactors, 0)

	// 从第 0 页滚向第 1 页：面板 0 的不透明度单调不增，面板 1 单调不减
	prev0, prev1 := 2.0, -1.0
	for x := 0.0; x >= -unit; x -= 1 {
		o0 := m.Map(0, x).Opacity
		o1 := m.Map(1, x).Opacity
		if o0 > prev0+floatEpsilon {
			t.Fatalf("panel 0 opacity increased at %v: %v -> %v", x, prev0, o0)
		}
		if o1 < prev1-floatEpsilon {
			t.Fatalf("panel 1 opacity decreased at %v: %v -> %v", x, prev1, o1)
		}
		prev0, prev1 = o0, o1
	}
}

// TestTransformMapper_NarrowPanel 测试面板宽度小于不透明度内侧断点时仍有合法曲线
func TestTransformMapper_NarrowPanel(t *testing.T) {
	m := newTestMapper(t, 200, IOSFactors, 0)
	ch := m.Channels(0)
	if err := ch.Opacity.Validate(); err != nil {
		t.Fatalf("narrow opacity curve invalid: %v", err)
	}
	if got := m.Map(0, 0).Opacity; got != 1 {
		t.Errorf("opacity at rest = %v, want 1", got)
	}

	// 离开侧断点越过中心被去掉，进入侧 10 单位断点仍保留
	wantIn := []float64{-200, -190, 0, 200}
	wantOut := []float64{0, 0.6, 1, 0}
	if len(ch.Opacity) != len(wantIn) {
		t.Fatalf("narrow opacity curve has %d points, want %d: %+v", len(ch.Opacity), len(wantIn), ch.Opacity)
	}
	for i, p := range ch.Opacity {
		if p.In != wantIn[i] || p.Out != wantOut[i] {
			t.Errorf("opacity[%d] = %+v, want {%v %v}", i, p, wantIn[i], wantOut[i])
		}
	}
	if got := m.Map(0, -195).Opacity; math.Abs(got-0.3) > floatEpsilon {
		t.Errorf("opacity inside entry inset = %v, want 0.3", got)
	}

	// 宽度不超过进入侧断点时退化为三点
	tiny := newTestMapper(t, 8, IOSFactors, 0)
	tch := tiny.Channels(0)
	if len(tch.Opacity) != 3 {
		t.Fatalf("tiny opacity curve has %d points, want 3", len(tch.Opacity))
	}
	if err := tch.Opacity.Validate(); err != nil {
		t.Fatalf("tiny opacity curve invalid: %v", err)
	}
}

// TestNewTransformMapper_Invalid 测试非法参数
func TestNewTransformMapper_Invalid(t *testing.T) {
	if _, err := NewTransformMapper(0, IOSFactors, 0); err == nil {
		t.Error("unit 0 should be rejected")
	}
	if _, err := NewTransformMapper(320, PlatformFactors{Translate: 0, Perspective: 1}, 0); err == nil {
		t.Error("zero translate factor should be rejected")
	}
	if _, err := NewTransformMapper(320, IOSFactors, -1); err == nil {
		t.Error("negative seam should be rejected")
	}
}

// TestFactorsForPlatform 测试平台系数选择
func TestFactorsForPlatform(t *testing.T) {
	if FactorsForPlatform("android") != AndroidFactors {
		t.Error("android should use AndroidFactors")
	}
	for _, p := range []string{"ios", "linux", "darwin", ""} {
		if FactorsForPlatform(p) != IOSFactors {
			t.Errorf("%q should use IOSFactors", p)
		}
	}
}

// TestTransformMapper_VisiblePanels 测试可见面板筛选
func TestTransformMapper_VisiblePanels(t *testing.T) {
	m := newTestMapper(t, 320, IOSFactors, 0)

	tests := []struct {
		name     string
		scrollX  float64
		count    int
		expected []int
	}{
		{"停在第一页", 0, 4, []int{0}},
		{"第一二页之间", -100, 4, []int{0, 1}},
		{"停在第二页", -320, 4, []int{1}},
		{"越过第一页", 50, 4, []int{0}},
		{"最后一页之后", -1000, 4, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.VisiblePanels(tt.scrollX, tt.count)
			if len(got) != len(tt.expected) {
				t.Fatalf("VisiblePanels(%v) = %v, want %v", tt.scrollX, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("VisiblePanels(%v) = %v, want %v", tt.scrollX, got, tt.expected)
				}
			}
			// 被跳过的面板必须完全透明
			for i := 0; i < tt.count; i++ {
				skipped := true
				for _, v := range got {
					if v == i {
						skipped = false
					}
				}
				if skipped && m.Map(i, tt.scrollX).Opacity != 0 {
					t.Errorf("panel %d skipped but opacity %v", i, m.Map(i, tt.scrollX).Opacity)
				}
			}
		})
	}
}
