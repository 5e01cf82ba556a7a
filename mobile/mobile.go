//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前需要把根目录的 assets/
// 复制到本目录（go:embed 只能嵌入包目录内的文件）：
//
//	# Android
//	cp -r assets mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.cubenav -o build/android/cubenav.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r assets mobile/ && ebitenmobile bind -target ios -tags mobile -o build/ios/CubeNav.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/cubenav/pkg/app"
	"github.com/decker502/cubenav/pkg/embedded"
)

func init() {
	// 初始化嵌入资源（assetsFS 在 embed.go 中声明）
	embedded.Init(assetsFS)

	// 平台系数由 utils.ResolvePlatform 根据 GOOS 自动选择
	cfg := app.Config{
		Verbose: true,
	}

	cubeApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(cubeApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
