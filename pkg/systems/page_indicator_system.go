package systems

import (
	"fmt"
	"image/color"

	"github.com/decker502/cubenav/pkg/components"
	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PageIndicatorSystem 页码指示器
// 指示点跟随实时小数页码连续变化（见 config.IndicatorDot）
type PageIndicatorSystem struct {
	entityManager *ecs.EntityManager
	captionFace   text.Face
	status        string
}

// NewPageIndicatorSystem 创建页码指示器
//
// 参数：
//   - captionFace: 说明文字字体，nil 时只绘制指示点
func NewPageIndicatorSystem(em *ecs.EntityManager, captionFace text.Face) *PageIndicatorSystem {
	return &PageIndicatorSystem{entityManager: em, captionFace: captionFace}
}

// SetStatus 设置附加在页码后的状态文字（锁定页、通知方式等）
func (s *PageIndicatorSystem) SetStatus(status string) {
	s.status = status
}

// Caption 生成指示器说明文字，例如 "Photos  3/5"
func (s *PageIndicatorSystem) Caption(page, count int) string {
	label := ""
	for _, id := range ecs.GetEntitiesWith1[*components.PanelComponent](s.entityManager) {
		panel, _ := ecs.GetComponent[*components.PanelComponent](s.entityManager, id)
		if panel.Index == page {
			label = panel.Label
			break
		}
	}

	caption := fmt.Sprintf("%s  %d/%d", label, page+1, count)
	if s.status != "" {
		caption += "  " + s.status
	}
	return caption
}

// Draw 绘制指示点和说明文字
func (s *PageIndicatorSystem) Draw(screen *ebiten.Image) {
	comp := findCarousel(s.entityManager)
	if comp == nil {
		return
	}

	count := comp.Controller.Layout().Count()
	frac := comp.Controller.FractionalIndex()
	x0, y := config.GetIndicatorOrigin(comp.ViewportWidth, comp.ViewportHeight, count)

	for i := 0; i < count; i++ {
		r, a := config.IndicatorDot(i, frac)
		clr := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a * 255)}
		cx := x0 + float64(i)*config.IndicatorDotSpacing
		vector.DrawFilledCircle(screen, float32(cx), float32(y), float32(r), clr, true)
	}

	if s.captionFace == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(comp.ViewportWidth/2, y-config.IndicatorCaptionOffset)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s.Caption(comp.Controller.CurrentPage(), count), s.captionFace, op)
}
