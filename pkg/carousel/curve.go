package carousel

import (
	"fmt"

	"github.com/decker502/cubenav/pkg/utils"
)

// ControlPoint 分段线性曲线上的一个控制点
type ControlPoint struct {
	In  float64 // 输入（滚动偏移）
	Out float64 // 输出（通道值）
}

// Curve 按 In 升序排列的控制点序列
//
// 相邻控制点之间线性插值，超出首尾控制点时取端点输出（clamp），不外推。
type Curve []ControlPoint

// Validate 检查曲线至少有一个控制点且输入严格递增
func (c Curve) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("curve has no control points")
	}
	for i := 1; i < len(c); i++ {
		if !(c[i].In > c[i-1].In) {
			return fmt.Errorf("curve inputs must be strictly increasing: point %d (%v) <= point %d (%v)",
				i, c[i].In, i-1, c[i-1].In)
		}
	}
	return nil
}

// At 计算 x 处的输出
func (c Curve) At(x float64) float64 {
	n := len(c)
	if n == 0 {
		return 0
	}
	if x <= c[0].In {
		return c[0].Out
	}
	if x >= c[n-1].In {
		return c[n-1].Out
	}

	// 控制点最多 5 个，线性查找即可
	for i := 1; i < n; i++ {
		if x == c[i].In {
			return c[i].Out
		}
		if x < c[i].In {
			a, b := c[i-1], c[i]
			t := utils.InverseLerp(a.In, b.In, x)
			return utils.Lerp(a.Out, b.Out, t)
		}
	}
	return c[n-1].Out
}

// Range 返回曲线输出的最小值和最大值
func (c Curve) Range() (lo, hi float64) {
	if len(c) == 0 {
		return 0, 0
	}
	lo, hi = c[0].Out, c[0].Out
	for _, p := range c[1:] {
		if p.Out < lo {
			lo = p.Out
		}
		if p.Out > hi {
			hi = p.Out
		}
	}
	return lo, hi
}
