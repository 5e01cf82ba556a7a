// cmd/render_cube_frames/main.go
// 离屏渲染立方体翻页过程，逐帧输出图片
//
// 用法：
//   go run ./cmd/render_cube_frames --from 0 --to 2 --out frames
//   go run ./cmd/render_cube_frames --linear --frames 24 --format png

package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"

	"github.com/decker502/cubenav/pkg/carousel"
	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/snapshot"
)

var (
	configPath  = flag.String("config", "assets/config/carousel.yaml", "轮播配置文件")
	fromPage    = flag.Int("from", 0, "起始页")
	toPage      = flag.Int("to", 1, "目标页")
	outDir      = flag.String("out", "frames", "输出目录")
	format      = flag.String("format", "webp", "输出格式: webp | png")
	width       = flag.Int("width", config.GameWindowWidth, "输出宽度")
	height      = flag.Int("height", config.GameWindowHeight, "输出高度")
	supersample = flag.Int("supersample", 2, "超采样倍数")
	linear      = flag.Bool("linear", false, "匀速扫过（默认使用 ScrollTo 弹簧动画）")
	frames      = flag.Int("frames", 30, "匀速模式下的帧数")
	maxFrames   = flag.Int("max-frames", 600, "弹簧模式下的最大帧数")
	noIndicator = flag.Bool("no-indicator", false, "不绘制页码指示器")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *fromPage < 0 || *fromPage >= cfg.PanelCount || *toPage < 0 || *toPage >= cfg.PanelCount {
		log.Fatalf("页码越界: from=%d to=%d, 共 %d 页", *fromPage, *toPage, cfg.PanelCount)
	}
	f := snapshot.Format(*format)
	if f != snapshot.FormatPNG && f != snapshot.FormatWebP {
		log.Fatalf("未知格式: %s", *format)
	}

	panels, err := loadPanels(cfg)
	if err != nil {
		log.Fatalf("加载面板失败: %v", err)
	}

	opts := snapshot.DefaultOptions()
	opts.Width, opts.Height = *width, *height
	opts.Expanded = cfg.ExpandedLayout
	opts.Supersample = *supersample
	opts.Indicator = !*noIndicator

	r, err := snapshot.NewRenderer(panels, opts)
	if err != nil {
		log.Fatalf("创建渲染器失败: %v", err)
	}
	mapper, err := r.NewMapper(cfg.ResolvedPlatform(), cfg.SeamOverlapValue())
	if err != nil {
		log.Fatalf("创建变换映射器失败: %v", err)
	}

	var offsets []float64
	if *linear {
		offsets = linearSweep(float64(*width), *fromPage, *toPage, *frames)
	} else {
		offsets, err = springSweep(cfg, float64(*width), *fromPage, *toPage, *maxFrames)
		if err != nil {
			log.Fatalf("模拟动画失败: %v", err)
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("创建输出目录失败: %v", err)
	}

	for i, offset := range offsets {
		path := filepath.Join(*outDir, fmt.Sprintf("frame_%04d.%s", i, f))
		if err := writeFrame(path, r.Render(mapper, offset), f); err != nil {
			log.Fatalf("写入 %s 失败: %v", path, err)
		}
	}
	fmt.Printf("已输出 %d 帧到 %s（第 %d 页 → 第 %d 页）\n", len(offsets), *outDir, *fromPage, *toPage)
}

func loadConfig(path string) (*config.CarouselConfig, error) {
	if path == "" {
		return config.DefaultCarouselConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("[RenderCubeFrames] %s 不存在，使用默认配置", path)
		return config.DefaultCarouselConfig(), nil
	}
	return config.LoadCarouselConfig(path)
}

func loadPanels(cfg *config.CarouselConfig) ([]snapshot.Panel, error) {
	panels := make([]snapshot.Panel, len(cfg.Panels))
	for i, pc := range cfg.Panels {
		c, err := config.ParseHexColor(pc.Color)
		if err != nil {
			return nil, fmt.Errorf("panel %d: %w", i, err)
		}
		panels[i] = snapshot.Panel{Label: pc.Label, Color: c}
		if pc.Image == "" {
			continue
		}
		img, err := decodeImage(pc.Image)
		if err != nil {
			log.Printf("Warning: 面板 %d 图片加载失败: %v", i, err)
			continue
		}
		panels[i].Image = img
	}
	return panels, nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// linearSweep 匀速从 from 页滚动到 to 页（含两端）
func linearSweep(unit float64, from, to, n int) []float64 {
	if n < 2 {
		n = 2
	}
	a, b := -unit*float64(from), -unit*float64(to)
	offsets := make([]float64, n)
	for i := range offsets {
		t := float64(i) / float64(n-1)
		offsets[i] = a + (b-a)*t
	}
	return offsets
}

// springSweep 用 ScrollTo 的弹簧动画采样每一帧的偏移
func springSweep(cfg *config.CarouselConfig, unit float64, from, to, limit int) ([]float64, error) {
	tps := cfg.TicksPerSecond
	if tps <= 0 {
		tps = 60
	}
	gc := carousel.NewGestureController(
		carousel.NewPageLayout(cfg.PanelCount, unit),
		carousel.NewAnimationDriver(tps),
		cfg.GestureOptions(),
	)
	if err := gc.ScrollTo(from, false); err != nil {
		return nil, err
	}
	if err := gc.ScrollTo(to, true); err != nil {
		return nil, err
	}

	dt := 1.0 / float64(tps)
	offsets := []float64{gc.Offset()}
	for i := 0; i < limit && gc.Driver().IsAnimating(); i++ {
		gc.Update(dt)
		offsets = append(offsets, gc.Offset())
	}
	if gc.Driver().IsAnimating() {
		log.Printf("[RenderCubeFrames] %d 帧内未停止，截断输出", limit)
	}
	return offsets, nil
}

func writeFrame(path string, img image.Image, f snapshot.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := snapshot.Encode(file, img, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
