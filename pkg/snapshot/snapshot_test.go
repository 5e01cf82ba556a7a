package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/decker502/cubenav/pkg/carousel"
	"golang.org/x/image/webp"
)

var (
	red  = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	blue = color.RGBA{R: 30, G: 60, B: 200, A: 255}
)

func newTestRenderer(t *testing.T, indicator bool) (*Renderer, *carousel.TransformMapper) {
	t.Helper()
	opts := DefaultOptions()
	opts.Width, opts.Height = 120, 200
	opts.Strips = 8
	opts.Indicator = indicator
	r, err := NewRenderer([]Panel{{Color: red}, {Color: blue}}, opts)
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	m, err := r.NewMapper("ios", 1)
	if err != nil {
		t.Fatalf("NewMapper() error: %v", err)
	}
	return r, m
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool { return math.Abs(float64(x)-float64(y)) <= float64(tol) }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B)
}

func TestNewRenderer_Invalid(t *testing.T) {
	if _, err := NewRenderer(nil, DefaultOptions()); err == nil {
		t.Error("expected error for empty panels")
	}
	opts := DefaultOptions()
	opts.Width = 0
	if _, err := NewRenderer([]Panel{{Color: red}}, opts); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestRender_RestShowsCurrentPanel(t *testing.T) {
	r, m := newTestRenderer(t, false)

	img := r.Render(m, 0)
	if img.Bounds() != image.Rect(0, 0, 120, 200) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(60, 100); !near(got, red, 2) {
		t.Errorf("center pixel = %+v, want %+v", got, red)
	}

	img = r.Render(m, -120)
	if got := img.RGBAAt(60, 100); !near(got, blue, 2) {
		t.Errorf("center pixel on page 1 = %+v, want %+v", got, blue)
	}
}

func TestRender_MidTransitionShowsBothFaces(t *testing.T) {
	r, m := newTestRenderer(t, false)
	img := r.Render(m, -60)

	var reds, blues int
	for x := 0; x < 120; x++ {
		c := img.RGBAAt(x, 100)
		switch {
		case c.R > c.B+50:
			reds++
		case c.B > c.R+50:
			blues++
		}
	}
	if reds == 0 || blues == 0 {
		t.Errorf("expected both faces on the middle row, reds=%d blues=%d", reds, blues)
	}
}

func TestRender_Indicator(t *testing.T) {
	r, m := newTestRenderer(t, true)
	without, _ := newTestRenderer(t, false)

	a := r.Render(m, 0)
	b := without.Render(m, 0)
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("indicator should change the frame")
	}
}

func TestStripAffine(t *testing.T) {
	q := carousel.Quad{{X: 10, Y: 5}, {X: 30, Y: 8}, {X: 12, Y: 95}, {X: 28, Y: 90}}
	aff := stripAffine(q, 40, 60, 100)

	apply := func(u, v float64) (float64, float64) {
		return aff[0]*u + aff[1]*v + aff[2], aff[3]*u + aff[4]*v + aff[5]
	}
	cases := []struct {
		u, v float64
		want carousel.Point
	}{
		{40, 0, q[0]},
		{60, 0, q[1]},
		{40, 100, q[2]},
	}
	for _, c := range cases {
		x, y := apply(c.u, c.v)
		if math.Abs(x-c.want.X) > 1e-9 || math.Abs(y-c.want.Y) > 1e-9 {
			t.Errorf("aff(%v, %v) = (%v, %v), want %+v", c.u, c.v, x, y, c.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/frame_000.png", FormatPNG, false},
		{"FRAME.WEBP", FormatWebP, false},
		{"frame.gif", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestEncode(t *testing.T) {
	r, m := newTestRenderer(t, false)
	img := r.Render(m, 0)

	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatPNG); err != nil {
		t.Fatalf("Encode(png) error: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("png.Decode() error: %v", err)
	}

	buf.Reset()
	if err := Encode(&buf, img, FormatWebP); err != nil {
		t.Fatalf("Encode(webp) error: %v", err)
	}
	decoded, err := webp.Decode(&buf)
	if err != nil {
		t.Fatalf("webp.Decode() error: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}

	if err := Encode(&buf, img, "bmp"); err == nil {
		t.Error("expected error for unknown format")
	}
}
