package systems

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/components"
	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/ecs"
	"github.com/decker502/cubenav/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CarouselRenderSystem 轮播渲染系统
//
// 每个面板先绘制成一张平面纹理（背景色、图像、标题），
// 再按竖条切分后用 DrawTriangles 贴到投影后的位置。
// 面板按深度从后往前绘制，不透明度通过顶点颜色缩放。
type CarouselRenderSystem struct {
	entityManager *ecs.EntityManager
	labelFace     text.Face
	strips        int

	// 面板纹理缓存，容器尺寸变化时整体失效
	faces        map[ecs.EntityID]*ebiten.Image
	faceW, faceH int

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewCarouselRenderSystem 创建轮播渲染系统
//
// 参数：
//   - labelFace: 面板标题字体，nil 时不绘制标题
func NewCarouselRenderSystem(em *ecs.EntityManager, labelFace text.Face) *CarouselRenderSystem {
	return &CarouselRenderSystem{
		entityManager: em,
		labelFace:     labelFace,
		strips:        config.PanelStrips,
		faces:         make(map[ecs.EntityID]*ebiten.Image),
	}
}

// Invalidate 丢弃所有面板纹理，下一帧重新绘制
func (s *CarouselRenderSystem) Invalidate() {
	for id, img := range s.faces {
		img.Deallocate()
		delete(s.faces, id)
	}
}

// Draw 绘制所有可见面板
func (s *CarouselRenderSystem) Draw(screen *ebiten.Image) {
	comp := findCarousel(s.entityManager)
	if comp == nil {
		return
	}

	frame, padding := carousel.PanelFrame(comp.ViewportWidth, comp.ViewportHeight, comp.Expanded)
	w, h := int(math.Ceil(frame.Width)), int(math.Ceil(frame.Height))
	if w <= 0 || h <= 0 {
		return
	}
	if w != s.faceW || h != s.faceH {
		s.Invalidate()
		s.faceW, s.faceH = w, h
	}

	for _, id := range visiblePanelsBackToFront(s.entityManager) {
		panel, _ := ecs.GetComponent[*components.PanelComponent](s.entityManager, id)
		pt, _ := ecs.GetComponent[*components.PanelTransformComponent](s.entityManager, id)

		face := s.face(id, panel, padding)
		strips := carousel.Strips(pt.Transform, frame, s.strips)
		s.vertices, s.indices = appendStripMesh(s.vertices[:0], s.indices[:0], strips, float64(w), float64(h), pt.Transform.Opacity)
		screen.DrawTriangles(s.vertices, s.indices, face, &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear})
	}
}

// face 返回（必要时绘制）面板的平面纹理
func (s *CarouselRenderSystem) face(id ecs.EntityID, panel *components.PanelComponent, padding float64) *ebiten.Image {
	if img, ok := s.faces[id]; ok {
		return img
	}

	img := ebiten.NewImage(s.faceW, s.faceH)
	img.Fill(panel.Color)

	// 内容区：展开布局下去掉上下内边距
	contentY := float32(padding)
	contentW := float32(s.faceW)
	contentH := float32(s.faceH) - 2*float32(padding)

	if panel.Image != nil {
		drawImageContained(img, panel.Image, 0, float64(contentY), float64(contentW), float64(contentH))
	}

	edge := shade(panel.Color, 0.75)
	vector.StrokeRect(img, 0.5, contentY+0.5, contentW-1, contentH-1, 2, edge, true)

	if s.labelFace != nil && panel.Label != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(contentW)/2, float64(contentY+contentH/2))
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		op.LineSpacing = utils.LineSpacing(s.labelFace)
		op.ColorScale.ScaleWithColor(LabelColor(panel.Color))
		lines := utils.WrapText(panel.Label, s.labelFace, float64(contentW)*0.85)
		text.Draw(img, strings.Join(lines, "\n"), s.labelFace, op)
	}

	s.faces[id] = img
	return img
}

// drawImageContained 将 src 等比缩放后居中绘制到 dst 的矩形区域内（四周留 10% 边距）
func drawImageContained(dst, src *ebiten.Image, x, y, w, h float64) {
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	if sw == 0 || sh == 0 {
		return
	}
	scale := math.Min(w*0.8/sw, h*0.8/sh)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x+(w-sw*scale)/2, y+(h-sh*scale)/2)
	dst.DrawImage(src, op)
}

// visiblePanelsBackToFront 返回可见面板，按深度从后往前排序（深度相同按页码）
func visiblePanelsBackToFront(em *ecs.EntityManager) []ecs.EntityID {
	type entry struct {
		id    ecs.EntityID
		index int
		depth float64
	}

	var entries []entry
	for _, id := range ecs.GetEntitiesWith2[*components.PanelComponent, *components.PanelTransformComponent](em) {
		panel, _ := ecs.GetComponent[*components.PanelComponent](em, id)
		pt, _ := ecs.GetComponent[*components.PanelTransformComponent](em, id)
		if !pt.Visible {
			continue
		}
		entries = append(entries, entry{id: id, index: panel.Index, depth: pt.Depth})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].depth != entries[j].depth {
			return entries[i].depth < entries[j].depth
		}
		return entries[i].index < entries[j].index
	})

	ids := make([]ecs.EntityID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// appendStripMesh 为竖条生成顶点和索引
//
// 每个竖条 4 个顶点（左上、右上、左下、右下），索引 {0,1,2,1,3,2}。
// 顶点颜色统一缩放为 opacity（源纹理为预乘 alpha）。
func appendStripMesh(vs []ebiten.Vertex, is []uint16, strips []carousel.Strip, texW, texH, opacity float64) ([]ebiten.Vertex, []uint16) {
	a := float32(opacity)
	for _, st := range strips {
		base := uint16(len(vs))
		u0, u1 := float32(st.U0*texW), float32(st.U1*texW)
		srcs := [4][2]float32{{u0, 0}, {u1, 0}, {u0, float32(texH)}, {u1, float32(texH)}}
		for i, p := range st.Quad {
			vs = append(vs, ebiten.Vertex{
				DstX:   float32(p.X),
				DstY:   float32(p.Y),
				SrcX:   srcs[i][0],
				SrcY:   srcs[i][1],
				ColorR: a,
				ColorG: a,
				ColorB: a,
				ColorA: a,
			})
		}
		is = append(is, base, base+1, base+2, base+1, base+3, base+2)
	}
	return vs, is
}

// LabelColor 根据背景亮度选择黑色或白色标题
func LabelColor(bg color.RGBA) color.Color {
	// ITU-R BT.601 亮度
	lum := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if lum > 150 {
		return color.RGBA{R: 20, G: 20, B: 20, A: 255}
	}
	return color.White
}

// shade 按比例调暗颜色
func shade(c color.RGBA, k float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}
