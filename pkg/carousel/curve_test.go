package carousel

import (
	"math"
	"testing"
)

// TestCurve_At 测试分段线性插值与两端 clamp
func TestCurve_At(t *testing.T) {
	c := Curve{
		{In: -10, Out: 0},
		{In: 0, Out: 1},
		{In: 10, Out: 0.5},
	}

	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"左侧 clamp", -100, 0},
		{"左端点", -10, 0},
		{"左段中点", -5, 0.5},
		{"中间控制点", 0, 1},
		{"右段中点", 5, 0.75},
		{"右端点", 10, 0.5},
		{"右侧 clamp", 1e9, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.At(tt.x); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("At(%v) = %v, want %v", tt.x, got, tt.expected)
			}
		})
	}
}

// TestCurve_Validate 测试控制点校验
func TestCurve_Validate(t *testing.T) {
	if err := (Curve{}).Validate(); err == nil {
		t.Error("empty curve should be invalid")
	}
	if err := (Curve{{In: 0, Out: 1}}).Validate(); err != nil {
		t.Errorf("single point curve should be valid: %v", err)
	}
	if err := (Curve{{In: 0}, {In: 0}}).Validate(); err == nil {
		t.Error("duplicate inputs should be invalid")
	}
	if err := (Curve{{In: 1}, {In: 0}}).Validate(); err == nil {
		t.Error("decreasing inputs should be invalid")
	}
}

// TestCurve_Range 测试输出范围
func TestCurve_Range(t *testing.T) {
	c := Curve{{In: 0, Out: 3}, {In: 1, Out: -2}, {In: 2, Out: 7}}
	lo, hi := c.Range()
	if lo != -2 || hi != 7 {
		t.Errorf("Range() = (%v, %v), want (-2, 7)", lo, hi)
	}
}

// TestCurve_SinglePoint 测试单点曲线恒定输出
func TestCurve_SinglePoint(t *testing.T) {
	c := Curve{{In: 5, Out: 42}}
	for _, x := range []float64{-1, 5, 100} {
		if got := c.At(x); got != 42 {
			t.Errorf("At(%v) = %v, want 42", x, got)
		}
	}
}
