// Package snapshot 无窗口渲染轮播画面
//
// 与 CarouselRenderSystem 使用同一套投影和竖条切分，但完全在 CPU 上完成：
// 面板纹理用 font.Drawer 绘制标题，竖条用 x/image/vector 光栅化成遮罩，
// 再用 x/image/draw 做仿射贴图。先按倍数放大渲染，最后 CatmullRom 缩小抗锯齿。
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Panel 一个面板的内容
type Panel struct {
	Label string
	Color color.RGBA
	Image image.Image // 可选
}

// Options 渲染参数
type Options struct {
	Width, Height int // 输出尺寸（逻辑像素）
	Expanded      bool
	Supersample   int // 放大倍数，< 1 时按 1 处理
	Strips        int // 每个面板的竖条数，< 1 时使用 config.PanelStrips
	Indicator     bool
	Background    color.RGBA
}

// DefaultOptions 返回与窗口一致的默认参数
func DefaultOptions() Options {
	return Options{
		Width:       config.GameWindowWidth,
		Height:      config.GameWindowHeight,
		Supersample: 2,
		Strips:      config.PanelStrips,
		Indicator:   true,
		Background:  color.RGBA{R: config.BackgroundGray, G: config.BackgroundGray, B: config.BackgroundGray, A: 255},
	}
}

// Renderer 离屏渲染器
// 面板纹理在第一次使用时绘制并缓存
type Renderer struct {
	opts   Options
	panels []Panel
	face   font.Face
	frame  carousel.Rect // 放大后的面板容器
	pad    float64       // 放大后的上下内边距
	faces  []*image.RGBA

	raster *vector.Rasterizer
	mask   *image.Alpha
}

// NewRenderer 创建离屏渲染器
//
// 参数：
//   - panels: 面板内容（按页码顺序）
//   - opts: 渲染参数
func NewRenderer(panels []Panel, opts Options) (*Renderer, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("snapshot: no panels")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("snapshot: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	if opts.Strips < 1 {
		opts.Strips = config.PanelStrips
	}

	s := float64(opts.Supersample)
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    config.LabelFontSize * s,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: create face: %w", err)
	}

	frame, pad := carousel.PanelFrame(float64(opts.Width)*s, float64(opts.Height)*s, opts.Expanded)
	w, h := opts.Width*opts.Supersample, opts.Height*opts.Supersample

	return &Renderer{
		opts:   opts,
		panels: panels,
		face:   face,
		frame:  frame,
		pad:    pad,
		faces:  make([]*image.RGBA, len(panels)),
		raster: vector.NewRasterizer(w, h),
		mask:   image.NewAlpha(image.Rect(0, 0, w, h)),
	}, nil
}

// Options 返回渲染参数
func (r *Renderer) Options() Options {
	return r.opts
}

// NewMapper 创建与输出宽度一致的变换映射器
func (r *Renderer) NewMapper(platform string, seam float64) (*carousel.TransformMapper, error) {
	return carousel.NewTransformMapper(float64(r.opts.Width), carousel.FactorsForPlatform(platform), seam)
}

// Render 渲染一帧
//
// 参数：
//   - mapper: 页宽等于 opts.Width 的变换映射器
//   - scroll: 滚动偏移（逻辑像素）
func (r *Renderer) Render(mapper *carousel.TransformMapper, scroll float64) *image.RGBA {
	s := float64(r.opts.Supersample)
	big := image.NewRGBA(image.Rect(0, 0, r.opts.Width*r.opts.Supersample, r.opts.Height*r.opts.Supersample))
	draw.Draw(big, big.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	type item struct {
		index int
		t     carousel.Transform
		depth float64
	}
	var items []item
	for _, i := range mapper.VisiblePanels(scroll, len(r.panels)) {
		t := mapper.Map(i, scroll)
		if t.Opacity <= 0 {
			continue
		}
		t = scaleTransform(t, s)
		items = append(items, item{index: i, t: t, depth: carousel.Depth(t)})
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].depth < items[b].depth })

	for _, it := range items {
		r.drawPanel(big, it.index, it.t)
	}

	if r.opts.Indicator {
		r.drawIndicator(big, math.Abs(scroll/float64(r.opts.Width)))
	}

	if r.opts.Supersample == 1 {
		return big
	}
	out := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Src, nil)
	return out
}

// scaleTransform 把逻辑像素下的变换换算到放大后的坐标
// 旋转角和不透明度与尺度无关
func scaleTransform(t carousel.Transform, s float64) carousel.Transform {
	t.Perspective *= s
	t.TranslateX *= s
	t.TranslateXAfterRotate *= s
	return t
}

func (r *Renderer) drawPanel(dst *image.RGBA, index int, t carousel.Transform) {
	tex := r.panelFace(index)
	texW, texH := float64(tex.Bounds().Dx()), float64(tex.Bounds().Dy())
	alpha := uint8(math.Round(t.Opacity * 255))

	for _, st := range carousel.Strips(t, r.frame, r.opts.Strips) {
		bounds := r.fillMask(st.Quad, alpha)
		if bounds.Empty() {
			continue
		}

		u0, u1 := st.U0*texW, st.U1*texW
		src := image.Rect(int(math.Floor(u0)), 0, int(math.Ceil(u1)), int(texH))
		aff := stripAffine(st.Quad, u0, u1, texH)
		draw.ApproxBiLinear.Transform(dst, aff, tex, src, draw.Over, &draw.Options{
			DstMask:  r.mask,
			DstMaskP: image.Point{},
		})
		clearAlpha(r.mask, bounds)
	}
}

// fillMask 把竖条光栅化到共享遮罩，返回需要清理的范围
func (r *Renderer) fillMask(q carousel.Quad, alpha uint8) image.Rectangle {
	b := r.mask.Bounds()
	r.raster.Reset(b.Dx(), b.Dy())
	// Quad 顺序为左上、右上、左下、右下，按左上、右上、右下、左下连成轮廓
	r.raster.MoveTo(float32(q[0].X), float32(q[0].Y))
	r.raster.LineTo(float32(q[1].X), float32(q[1].Y))
	r.raster.LineTo(float32(q[3].X), float32(q[3].Y))
	r.raster.LineTo(float32(q[2].X), float32(q[2].Y))
	r.raster.ClosePath()
	r.raster.Draw(r.mask, b, image.NewUniform(color.Alpha{A: alpha}), image.Point{})
	return quadBounds(q).Intersect(b)
}

// stripAffine 计算从纹理竖条到屏幕的仿射变换（由左上、右上、左下三个角确定）
func stripAffine(q carousel.Quad, u0, u1, texH float64) f64.Aff3 {
	du := u1 - u0
	a := (q[1].X - q[0].X) / du
	b := (q[2].X - q[0].X) / texH
	d := (q[1].Y - q[0].Y) / du
	e := (q[2].Y - q[0].Y) / texH
	return f64.Aff3{
		a, b, q[0].X - a*u0,
		d, e, q[0].Y - d*u0,
	}
}

func quadBounds(q carousel.Quad) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX))-1, int(math.Floor(minY))-1, int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

func clearAlpha(m *image.Alpha, rect image.Rectangle) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := m.Pix[m.PixOffset(rect.Min.X, y):m.PixOffset(rect.Max.X, y)]
		for i := range row {
			row[i] = 0
		}
	}
}

// panelFace 返回（必要时绘制）面板的平面纹理
func (r *Renderer) panelFace(index int) *image.RGBA {
	if tex := r.faces[index]; tex != nil {
		return tex
	}

	p := r.panels[index]
	w, h := int(math.Ceil(r.frame.Width)), int(math.Ceil(r.frame.Height))
	tex := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(tex, tex.Bounds(), image.NewUniform(p.Color), image.Point{}, draw.Src)

	contentTop := int(r.pad)
	content := image.Rect(0, contentTop, w, h-contentTop)

	if p.Image != nil {
		sb := p.Image.Bounds()
		scale := math.Min(float64(content.Dx())*0.8/float64(sb.Dx()), float64(content.Dy())*0.8/float64(sb.Dy()))
		iw, ih := int(float64(sb.Dx())*scale), int(float64(sb.Dy())*scale)
		x0 := content.Min.X + (content.Dx()-iw)/2
		y0 := content.Min.Y + (content.Dy()-ih)/2
		draw.CatmullRom.Scale(tex, image.Rect(x0, y0, x0+iw, y0+ih), p.Image, sb, draw.Over, nil)
	}

	if p.Label != "" {
		d := &font.Drawer{
			Dst:  tex,
			Src:  image.NewUniform(labelColor(p.Color)),
			Face: r.face,
		}
		width := d.MeasureString(p.Label)
		m := r.face.Metrics()
		cx := fixed.I(content.Min.X + content.Dx()/2)
		cy := fixed.I(content.Min.Y + content.Dy()/2)
		d.Dot = fixed.Point26_6{
			X: cx - width/2,
			Y: cy + (m.Ascent-m.Descent)/2,
		}
		d.DrawString(p.Label)
	}

	r.faces[index] = tex
	return tex
}

// drawIndicator 绘制页码指示点
func (r *Renderer) drawIndicator(dst *image.RGBA, fractionalIndex float64) {
	s := float64(r.opts.Supersample)
	x0, y := config.GetIndicatorOrigin(float64(r.opts.Width), float64(r.opts.Height), len(r.panels))
	b := dst.Bounds()

	for i := range r.panels {
		radius, alpha := config.IndicatorDot(i, fractionalIndex)
		cx := (x0 + float64(i)*config.IndicatorDotSpacing) * s
		cy := y * s
		rad := radius * s

		r.raster.Reset(b.Dx(), b.Dy())
		const segments = 32
		for k := 0; k <= segments; k++ {
			a := 2 * math.Pi * float64(k) / segments
			px, py := float32(cx+rad*math.Cos(a)), float32(cy+rad*math.Sin(a))
			if k == 0 {
				r.raster.MoveTo(px, py)
			} else {
				r.raster.LineTo(px, py)
			}
		}
		r.raster.ClosePath()
		v := uint8(math.Round(alpha * 255))
		r.raster.Draw(dst, b, image.NewUniform(color.RGBA{R: v, G: v, B: v, A: v}), image.Point{})
	}
}

// labelColor 根据背景亮度选择黑色或白色标题
func labelColor(bg color.RGBA) color.Color {
	lum := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if lum > 150 {
		return color.RGBA{R: 20, G: 20, B: 20, A: 255}
	}
	return color.White
}
