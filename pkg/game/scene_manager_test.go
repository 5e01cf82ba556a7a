package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// mockResizableScene records viewport changes and exit saves.
type mockResizableScene struct {
	MockScene
	sizes     [][2]int
	saveCalls int
	saveOK    bool
}

func (m *mockResizableScene) Resize(width, height int) {
	m.sizes = append(m.sizes, [2]int{width, height})
}

func (m *mockResizableScene) SaveOnExit() bool {
	m.saveCalls++
	return m.saveOK
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}
	if w, h := sm.Viewport(); w != 0 || h != 0 {
		t.Errorf("Expected empty viewport, got %dx%d", w, h)
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 0.016 // ~60 FPS
	sm.Update(deltaTime)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

// TestSceneManagerNoScene verifies that Update/SetViewport/SaveOnExit handle nil scene gracefully.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	if !sm.SetViewport(320, 640) {
		t.Error("first viewport should be reported as a change")
	}
	if !sm.SaveOnExit() {
		t.Error("SaveOnExit without scene should succeed")
	}
}

// TestSceneManagerViewport verifies Resize forwarding.
func TestSceneManagerViewport(t *testing.T) {
	sm := NewSceneManager()
	scene := &mockResizableScene{}

	// 视口未知时切换场景不触发 Resize
	sm.SwitchTo(scene)
	if len(scene.sizes) != 0 {
		t.Fatalf("Resize called before viewport known: %v", scene.sizes)
	}

	tests := []struct {
		name    string
		w, h    int
		changed bool
	}{
		{"首次设置", 480, 800, true},
		{"尺寸不变", 480, 800, false},
		{"旋转屏幕", 800, 480, true},
		{"非法尺寸", 0, 480, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sm.SetViewport(tt.w, tt.h); got != tt.changed {
				t.Errorf("SetViewport(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.changed)
			}
		})
	}

	if len(scene.sizes) != 2 || scene.sizes[1] != [2]int{800, 480} {
		t.Errorf("Resize calls = %v", scene.sizes)
	}

	// 切换到新场景时立即收到当前尺寸
	next := &mockResizableScene{}
	sm.SwitchTo(next)
	if len(next.sizes) != 1 || next.sizes[0] != [2]int{800, 480} {
		t.Errorf("new scene Resize calls = %v", next.sizes)
	}
}

// TestSceneManagerSaveOnExit verifies that Saveable scenes are asked to save.
func TestSceneManagerSaveOnExit(t *testing.T) {
	sm := NewSceneManager()
	scene := &mockResizableScene{saveOK: false}
	sm.SwitchTo(scene)

	if sm.SaveOnExit() {
		t.Error("SaveOnExit should report the scene's failure")
	}
	if scene.saveCalls != 1 {
		t.Errorf("SaveOnExit called %d times", scene.saveCalls)
	}

	plain := &MockScene{}
	sm.SwitchTo(plain)
	if !sm.SaveOnExit() {
		t.Error("non-Saveable scene should report success")
	}
}

// TestSceneManagerSwitchBetweenScenes verifies switching between multiple scenes.
func TestSceneManagerSwitchBetweenScenes(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.Update(0.016)

	if !scene1.updateCalled {
		t.Error("Scene1's Update was not called")
	}
	if scene2.updateCalled {
		t.Error("Scene2's Update should not have been called yet")
	}

	sm.SwitchTo(scene2)
	sm.Update(0.016)

	if !scene2.updateCalled {
		t.Error("Scene2's Update was not called after switching")
	}
}
