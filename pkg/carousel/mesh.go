package carousel

// Strip 面板的一个竖条
// 绕 Y 轴旋转时同一竖线上的点深度相同，按竖条切分后逐条仿射贴图即可近似透视
type Strip struct {
	Quad Quad
	// U0, U1 竖条左右边在面板纹理上的横向比例（0..1）
	U0, U1 float64
}

// Strips 将面板按竖条切分并投影
//
// 参数：
//   - t: 面板变换
//   - frame: 面板容器矩形
//   - n: 竖条数量，小于 1 时按 1 处理
func Strips(t Transform, frame Rect, n int) []Strip {
	if n < 1 {
		n = 1
	}
	cx := frame.X + frame.Width/2
	cy := frame.Y + frame.Height/2
	hw, hh := frame.Width/2, frame.Height/2

	// 相邻竖条共享边，先投影 n+1 条竖线
	top := make([]Point, n+1)
	bottom := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		x := -hw + frame.Width*float64(i)/float64(n)
		sx, sy, _ := ProjectPoint(t, x, -hh)
		top[i] = Point{X: cx + sx, Y: cy + sy}
		sx, sy, _ = ProjectPoint(t, x, hh)
		bottom[i] = Point{X: cx + sx, Y: cy + sy}
	}

	strips := make([]Strip, n)
	for i := range strips {
		strips[i] = Strip{
			Quad: Quad{top[i], top[i+1], bottom[i], bottom[i+1]},
			U0:   float64(i) / float64(n),
			U1:   float64(i+1) / float64(n),
		}
	}
	return strips
}
