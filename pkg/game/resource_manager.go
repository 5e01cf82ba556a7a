package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/cubenav/pkg/embedded"
	_ "github.com/ftrvxmtrx/tga" // Register TGA decoder
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// defaultFontKey 内置字体在缓存中的路径键
const defaultFontKey = "builtin:goregular"

// ResourceManager is responsible for centralized management of panel resources.
// It provides loading and caching mechanisms for images, fonts and sound effects,
// ensuring that resources are loaded only once and reused by every panel.
//
// Resources are read from the embedded asset tree when it has been initialized
// (see embedded.Init) and from disk otherwise, so tools and tests can point
// at files outside the binary.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal caches use standard Go maps.
// For the single-threaded game loop, no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager()
//	img, err := rm.LoadImage("assets/images/inbox.png")
//	if err != nil {
//	    log.Printf("Failed to load image: %v", err)
//	}
type ResourceManager struct {
	imageCache     map[string]*ebiten.Image    // Cache for GPU images: path -> Image
	imageDataCache map[string]image.Image      // Cache for decoded CPU images: path -> image.Image
	fontFaceCache  map[string]*text.GoTextFace // Cache for Ebitengine v2 text faces
	fontSources    map[string]*text.GoTextFaceSource
	soundCache     map[string][]byte // Decoded PCM: "path@rate" -> bytes
}

// NewResourceManager creates and returns a new ResourceManager instance.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		imageCache:     make(map[string]*ebiten.Image),
		imageDataCache: make(map[string]image.Image),
		fontFaceCache:  make(map[string]*text.GoTextFace),
		fontSources:    make(map[string]*text.GoTextFaceSource),
		soundCache:     make(map[string][]byte),
	}
}

// readResource 读取资源字节
// assets/ 前缀的路径优先从嵌入资源读取，失败或未初始化时回退到磁盘
func readResource(path string) ([]byte, error) {
	if embedded.IsInitialized() && strings.HasPrefix(strings.TrimPrefix(path, "./"), "assets/") {
		if data, err := embedded.ReadFile(path); err == nil {
			return data, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LoadImageData decodes an image (PNG, JPEG, TGA or WebP) without uploading it to the GPU.
// The offline renderer uses this directly; LoadImage builds on it.
//
// Parameters:
//   - path: The resource path, e.g. "assets/images/inbox.png".
//
// Returns:
//   - The decoded image.
//   - An error if the file cannot be read or decoded.
func (rm *ResourceManager) LoadImageData(path string) (image.Image, error) {
	if cached, exists := rm.imageDataCache[path]; exists {
		return cached, nil
	}

	data, err := readResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	rm.imageDataCache[path] = img
	return img, nil
}

// LoadImage loads an image from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
//
// Parameters:
//   - path: The resource path of the image.
//
// Returns:
//   - A pointer to the loaded ebiten.Image.
//   - An error if the file cannot be opened or decoded.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	img, err := rm.LoadImageData(path)
	if err != nil {
		return nil, err
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache.
// If the image has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// LoadFont loads a TrueType/OpenType font and creates a face with the specified size.
// Faces are cached per (path, size); the parsed source is shared between sizes.
//
// Example:
//
//	face, err := rm.LoadFont("assets/fonts/label.ttf", 32)
//	if err != nil {
//	    log.Printf("Failed to load font: %v", err)
//	    return err
//	}
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[path]
	if !ok {
		fontData, err := readResource(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
		}
		rm.fontSources[path] = source
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace
	return goTextFace, nil
}

// LoadDefaultFont 返回内置 Go Regular 字体
//
// 配置中未指定字体或字体加载失败时使用。
func (rm *ResourceManager) LoadDefaultFont(size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", defaultFontKey, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, ok := rm.fontSources[defaultFontKey]
	if !ok {
		var err error
		source, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, fmt.Errorf("failed to create builtin font source: %w", err)
		}
		rm.fontSources[defaultFontKey] = source
	}

	face := &text.GoTextFace{Source: source, Size: size, Direction: text.DirectionLeftToRight}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// GetFont retrieves a previously loaded font face from the cache.
// If the font has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetFont(path string, size float64) *text.GoTextFace {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	return rm.fontFaceCache[cacheKey]
}

// LoadSoundData decodes a sound effect into 16-bit little-endian stereo PCM
// at the given sample rate, ready for audio.Context.NewPlayerFromBytes.
// Supported formats: MP3 (.mp3), OGG Vorbis (.ogg) and WAV (.wav).
//
// Parameters:
//   - path: The resource path, e.g. "assets/audio/swipe.ogg".
//   - sampleRate: The sample rate of the audio context.
//
// Returns:
//   - The decoded PCM bytes (cached per path and sample rate).
//   - An error if the file cannot be read, decoded, or has an unsupported extension.
func (rm *ResourceManager) LoadSoundData(path string, sampleRate int) ([]byte, error) {
	key := fmt.Sprintf("%s@%d", path, sampleRate)
	if data, exists := rm.soundCache[key]; exists {
		return data, nil
	}

	raw, err := readResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file %s: %w", path, err)
	}
	reader := bytes.NewReader(raw)

	var stream io.Reader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, reader)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, reader)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound %s: %w", path, err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded sound %s: %w", path, err)
	}

	rm.soundCache[key] = data
	return data, nil
}
