//go:build !mobile

package utils

import (
	"runtime"
	"testing"
)

// TestIsMobile_Desktop 测试桌面端编译时 IsMobile() 返回 false
func TestIsMobile_Desktop(t *testing.T) {
	t.Setenv("CUBENAV_MOBILE_EMULATE", "")
	if IsMobile() {
		t.Error("IsMobile() should return false on desktop")
	}
}

// TestIsMobile_Emulate 测试环境变量强制移动模式
func TestIsMobile_Emulate(t *testing.T) {
	t.Setenv("CUBENAV_MOBILE_EMULATE", "1")
	if !IsMobile() {
		t.Error("IsMobile() should return true when emulating")
	}
}

// TestResolvePlatform 测试平台解析
func TestResolvePlatform(t *testing.T) {
	t.Setenv(platformEnv, "")

	tests := []struct {
		name       string
		configured string
		expected   string
	}{
		{"显式 iOS", "ios", PlatformIOS},
		{"显式 Android（大小写）", " Android ", PlatformAndroid},
		{"未知值按自动处理", "web", PlatformIOS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePlatform(tt.configured); got != tt.expected {
				t.Errorf("ResolvePlatform(%q) = %q, want %q", tt.configured, got, tt.expected)
			}
		})
	}

	if runtime.GOOS != "android" {
		if got := ResolvePlatform(PlatformAuto); got != PlatformIOS {
			t.Errorf("auto on %s = %q, want ios", runtime.GOOS, got)
		}
	}
}

// TestResolvePlatform_EnvOverride 测试环境变量覆盖自动检测
func TestResolvePlatform_EnvOverride(t *testing.T) {
	t.Setenv(platformEnv, "android")
	if got := ResolvePlatform("auto"); got != PlatformAndroid {
		t.Errorf("ResolvePlatform(auto) = %q, want android", got)
	}
	// 显式配置优先于环境变量
	if got := ResolvePlatform("ios"); got != PlatformIOS {
		t.Errorf("ResolvePlatform(ios) = %q, want ios", got)
	}
}
