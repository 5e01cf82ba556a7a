package utils

import (
	"os"
	"runtime"
	"strings"
)

// 平台名
const (
	PlatformAuto    = "auto"
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// platformEnv 覆盖自动检测的环境变量
const platformEnv = "CUBENAV_PLATFORM"

// ResolvePlatform 解析配置中的平台名
//
// 规则：
//   - "ios" / "android" 原样返回
//   - "auto" 或空串：先看环境变量 CUBENAV_PLATFORM，再按 runtime.GOOS 判断
//   - 桌面平台（linux、darwin、windows 等）返回 "ios"，与 iOS 调校的透视系数一致
func ResolvePlatform(configured string) string {
	p := strings.ToLower(strings.TrimSpace(configured))
	if p == PlatformIOS || p == PlatformAndroid {
		return p
	}

	if env := strings.ToLower(strings.TrimSpace(os.Getenv(platformEnv))); env == PlatformIOS || env == PlatformAndroid {
		return env
	}

	if runtime.GOOS == "android" {
		return PlatformAndroid
	}
	return PlatformIOS
}
