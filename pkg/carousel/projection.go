package carousel

import "math"

// minPerspectiveW 透视除法的下限，防止点越过观察者时坐标翻转
const minPerspectiveW = 0.05

// Point 二维屏幕坐标
type Point struct {
	X, Y float64
}

// Quad 面板四个角在屏幕上的投影
// 顺序：左上、右上、左下、右下（与 DrawTriangles 顶点顺序一致）
type Quad [4]Point

// ProjectPoint 将面板局部坐标（以面板中心为原点）按 Transform 投影到屏幕
//
// 变换顺序：先 translateX(TranslateXAfterRotate)，再 rotateY，
// 再 translateX(TranslateX)，最后 perspective。
//
// 返回：
//   - sx, sy: 相对面板中心的屏幕坐标
//   - z: 旋转后深度（正值朝向观察者）
func ProjectPoint(t Transform, x, y float64) (sx, sy, z float64) {
	rad := t.RotateY * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	x1 := x + t.TranslateXAfterRotate
	xr := x1*cos + t.TranslateX
	z = -x1 * sin

	w := 1.0
	if t.Perspective > 0 {
		w = 1 - z/t.Perspective
	}
	if w < minPerspectiveW {
		w = minPerspectiveW
	}
	return xr / w, y / w, z
}

// Project 投影面板矩形的四个角
//
// 参数：
//   - t: 面板变换
//   - frame: 面板容器矩形（变换原点为其中心）
func Project(t Transform, frame Rect) Quad {
	cx := frame.X + frame.Width/2
	cy := frame.Y + frame.Height/2
	hw, hh := frame.Width/2, frame.Height/2

	corners := [4][2]float64{
		{-hw, -hh},
		{hw, -hh},
		{-hw, hh},
		{hw, hh},
	}

	var q Quad
	for i, c := range corners {
		sx, sy, _ := ProjectPoint(t, c[0], c[1])
		q[i] = Point{X: cx + sx, Y: cy + sy}
	}
	return q
}

// Depth 返回面板中心旋转后的深度，用于从后往前排序绘制
func Depth(t Transform) float64 {
	_, _, z := ProjectPoint(t, 0, 0)
	return z
}
