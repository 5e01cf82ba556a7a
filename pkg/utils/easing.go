package utils

import "math"

// 插值与缓动工具
//
// Lerp/InverseLerp/Clamp 供轮播变换曲线使用；
// 缓动函数接受进度 t ∈ [0, 1]，返回 ∈ [0, 1]，供页码指示器等 UI 动效使用。
//
// 参考：https://easings.net/

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b，t 不做限制
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp 反向线性插值：返回 v 在 [a, b] 中的进度
// a == b 时返回 0，避免除零
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// Clamp 将 v 限制在 [lo, hi] 内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
