package main

import (
	"flag"
	"log"

	"github.com/decker502/cubenav/pkg/app"
	"github.com/decker502/cubenav/pkg/config"
	"github.com/decker502/cubenav/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// 命令行参数
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	configPath = flag.String("config", "", "从磁盘读取配置文件（默认使用内置 assets/config/carousel.yaml）")
	page       = flag.Int("page", -1, "启动页码（从 0 开始，默认使用配置中的 initialPage）")
	platform   = flag.String("platform", "", "平台变换系数：auto、ios 或 android")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（assetsFS 在 embed.go 中声明）
	embedded.Init(assetsFS)

	cfg := app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Platform:   *platform,
	}
	if *page >= 0 {
		cfg.Page = page
	}

	cubeApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(cubeApp); err != nil {
		log.Fatal(err)
	}
}
