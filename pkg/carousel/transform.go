package carousel

import (
	"fmt"
	"math"
)

// 变换曲线常量
const (
	// MaxRotation 面板离开/进入可见位置时的最大旋转角度（度）
	MaxRotation = 60.0

	// postRotateEpsilon 后旋转平移在外侧断点内侧的拆分距离
	// 避免两个面板在交接边界处出现导数突变导致的接缝
	postRotateEpsilon = 0.1

	// opacityEnterInset 进入时不透明度达到 0.6 的位置（距远端边缘）
	opacityEnterInset = 10.0
	// opacityExitInset 离开时不透明度回到 0.6 的位置（距远端边缘）
	opacityExitInset = 250.0

	// opacityEdge 内侧断点处的不透明度
	opacityEdge = 0.6
)

// PlatformFactors 平台相关的透视补偿系数
type PlatformFactors struct {
	// Translate 主平移除数（TR_FACTOR）
	Translate float64 `yaml:"translate"`
	// Perspective 后旋转平移除数（PERSPECTIVE_FACTOR）
	Perspective float64 `yaml:"perspective"`
}

var (
	// IOSFactors iOS 上调校的系数
	IOSFactors = PlatformFactors{Translate: 2, Perspective: 2.38}
	// AndroidFactors Android 上调校的系数
	AndroidFactors = PlatformFactors{Translate: 1.5, Perspective: 1.7}
)

// FactorsForPlatform 根据平台名返回系数
// 未知平台（桌面、web）使用 iOS 系数
func FactorsForPlatform(platform string) PlatformFactors {
	if platform == "android" {
		return AndroidFactors
	}
	return IOSFactors
}

// Transform 单个面板在某一帧的视觉变换描述
//
// 应用顺序与 CSS transform 一致：
// perspective(Perspective) · translateX(TranslateX) · rotateY(RotateY) · translateX(TranslateXAfterRotate)
type Transform struct {
	Perspective           float64 // 透视距离（等于面板宽度）
	TranslateX            float64 // 主平移
	RotateY               float64 // 绕 Y 轴旋转角度（度）
	TranslateXAfterRotate float64 // 旋转后平移
	Opacity               float64 // 不透明度 0 ~ 1
}

// Channels 一个面板的全部变换曲线
type Channels struct {
	Rotation        Curve
	Translate       Curve
	PostTranslate   Curve
	Opacity         Curve
	PerspectiveDist float64
}

// TransformMapper 将 (面板序号, 滚动偏移) 映射为 Transform
//
// 无状态，可在同一帧内对任意数量的面板重复调用。
type TransformMapper struct {
	unit    float64
	factors PlatformFactors
	seam    float64
}

// NewTransformMapper 创建变换映射器
//
// 参数：
//   - unit: 面板宽度，必须 > 0
//   - factors: 平台透视补偿系数，除数必须 > 0
//   - seam: 平移输出额外延伸的距离（原版为 1，用于遮盖相邻面间的 1 像素缝隙）
//
// 返回：
//   - error: 参数非法时返回错误
func NewTransformMapper(unit float64, factors PlatformFactors, seam float64) (*TransformMapper, error) {
	if unit <= 0 {
		return nil, fmt.Errorf("transform mapper: unit must be > 0, got %v", unit)
	}
	if factors.Translate <= 0 || factors.Perspective <= 0 {
		return nil, fmt.Errorf("transform mapper: platform factors must be > 0, got %+v", factors)
	}
	if seam < 0 {
		return nil, fmt.Errorf("transform mapper: seam must be >= 0, got %v", seam)
	}
	return &TransformMapper{unit: unit, factors: factors, seam: seam}, nil
}

// Unit 返回面板宽度
func (m *TransformMapper) Unit() float64 {
	return m.unit
}

// Factors 返回平台系数
func (m *TransformMapper) Factors() PlatformFactors {
	return m.factors
}

// Channels 构建第 panelIndex 个面板的控制点曲线
func (m *TransformMapper) Channels(panelIndex int) Channels {
	u := m.unit
	pageX := -u * float64(panelIndex)
	edge := u + m.seam

	return Channels{
		Rotation: Curve{
			{In: pageX - u, Out: -MaxRotation},
			{In: pageX, Out: 0},
			{In: pageX + u, Out: MaxRotation},
		},
		Translate: Curve{
			{In: pageX - u, Out: -edge / m.factors.Translate},
			{In: pageX, Out: 0},
			{In: pageX + u, Out: edge / m.factors.Translate},
		},
		PostTranslate:   m.postTranslateCurve(pageX, edge),
		Opacity:         opacityCurve(pageX, u),
		PerspectiveDist: u,
	}
}

// postTranslateCurve 构建后旋转平移曲线（五点，外侧断点内拆 postRotateEpsilon）
func (m *TransformMapper) postTranslateCurve(pageX, edge float64) Curve {
	u := m.unit
	if u <= postRotateEpsilon {
		return Curve{
			{In: pageX - u, Out: -edge},
			{In: pageX, Out: 0},
			{In: pageX + u, Out: edge},
		}
	}
	return Curve{
		{In: pageX - u, Out: -edge},
		{In: pageX - u + postRotateEpsilon, Out: -edge / m.factors.Perspective},
		{In: pageX, Out: 0},
		{In: pageX + u - postRotateEpsilon, Out: edge / m.factors.Perspective},
		{In: pageX + u, Out: edge},
	}
}

// opacityCurve 构建不透明度曲线
//
// 面板很窄时内侧断点会越过中心：unit <= opacityExitInset 时去掉离开侧断点（四点），
// unit <= opacityEnterInset 时进入侧断点也去掉（三点），保持输入严格递增。
func opacityCurve(pageX, u float64) Curve {
	curve := Curve{{In: pageX - u, Out: 0}}
	if u > opacityEnterInset {
		curve = append(curve, ControlPoint{In: pageX - u + opacityEnterInset, Out: opacityEdge})
	}
	curve = append(curve, ControlPoint{In: pageX, Out: 1})
	if u > opacityExitInset {
		curve = append(curve, ControlPoint{In: pageX + u - opacityExitInset, Out: opacityEdge})
	}
	return append(curve, ControlPoint{In: pageX + u, Out: 0})
}

// Map 计算面板在给定滚动偏移下的变换
func (m *TransformMapper) Map(panelIndex int, scrollX float64) Transform {
	ch := m.Channels(panelIndex)
	return Transform{
		Perspective:           ch.PerspectiveDist,
		TranslateX:            ch.Translate.At(scrollX),
		RotateY:               ch.Rotation.At(scrollX),
		TranslateXAfterRotate: ch.PostTranslate.At(scrollX),
		Opacity:               ch.Opacity.At(scrollX),
	}
}

// VisiblePanels 返回距当前偏移一页以内的面板序号（升序）
//
// 仅作为渲染优化：范围外的面板 Map 结果为完全透明，跳过与否不影响正确性。
func (m *TransformMapper) VisiblePanels(scrollX float64, count int) []int {
	pos := -scrollX / m.unit
	lo := int(math.Floor(pos)) - 1
	hi := int(math.Ceil(pos)) + 1
	if lo < 0 {
		lo = 0
	}
	if hi > count-1 {
		hi = count - 1
	}

	indices := make([]int, 0, 3)
	for i := lo; i <= hi; i++ {
		pageX := -m.unit * float64(i)
		if math.Abs(scrollX-pageX) < m.unit {
			indices = append(indices, i)
		}
	}
	return indices
}
