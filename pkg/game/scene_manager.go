package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages which scene is active and tracks the viewport size.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	width        int
	height       int
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene to the provided scene.
// A Resizable scene immediately receives the current viewport size (if known).
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	if r, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// SetViewport 更新视口尺寸，尺寸变化时通知当前场景
//
// 参数：
//   - width, height: 逻辑像素尺寸，非正值被忽略
//
// 返回：
//   - bool: 尺寸是否发生变化
func (sm *SceneManager) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if width == sm.width && height == sm.height {
		return false
	}

	log.Printf("[SceneManager] Viewport %dx%d -> %dx%d", sm.width, sm.height, width, height)
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizable); ok {
		r.Resize(width, height)
	}
	return true
}

// Viewport 返回当前视口尺寸
func (sm *SceneManager) Viewport() (int, int) {
	return sm.width, sm.height
}

// SaveOnExit 让当前场景保存状态（如果支持）
//
// 返回：
//   - bool: 保存成功或无需保存时为 true
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
