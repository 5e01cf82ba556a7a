package carousel

import "math"

// Resolve 返回 pageOffsets 中距离 offset 最近的偏移
//
// 线性扫描，严格小于比较，距离相同时先遇到的（页码更小的）胜出。
// 范围外的值返回最近的端点。pageOffsets 为空时返回 offset 本身。
func Resolve(offset float64, pageOffsets []float64) float64 {
	_, nearest := ResolveIndex(offset, pageOffsets)
	return nearest
}

// ResolveIndex 与 Resolve 相同，同时返回命中的页码
// pageOffsets 为空时返回 (-1, offset)
func ResolveIndex(offset float64, pageOffsets []float64) (int, float64) {
	if len(pageOffsets) == 0 {
		return -1, offset
	}

	best := 0
	minDiff := math.Inf(1)
	for i, o := range pageOffsets {
		if d := math.Abs(offset - o); d < minDiff {
			minDiff = d
			best = i
		}
	}
	return best, pageOffsets[best]
}
