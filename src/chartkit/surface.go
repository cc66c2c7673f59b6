package chartkit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/iafilius/PhishingDashboard/src/logging"
)

// Surface is a chart mount point: it receives every frame a chart draws.
type Surface interface {
	Present(img image.Image)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(img image.Image)

// Present calls f(img).
func (f SurfaceFunc) Present(img image.Image) { f(img) }

// MemorySurface keeps the latest frame and its PNG encoding. It is safe for concurrent readers.
type MemorySurface struct {
	mu     sync.RWMutex
	img    image.Image
	png    []byte
	frames uint64
}

// Present stores img and encodes it once so HTTP readers can serve it without re-encoding.
func (s *MemorySurface) Present(img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logging.Warnf("[chartkit] memory surface png encode: %v", err)
		return
	}
	s.mu.Lock()
	s.img = img
	s.png = buf.Bytes()
	s.frames++
	s.mu.Unlock()
}

// PNG returns the last presented frame encoded as PNG, or nil before the first frame.
func (s *MemorySurface) PNG() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.png
}

// Image returns the last presented frame.
func (s *MemorySurface) Image() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.img
}

// Frames returns how many frames were presented.
func (s *MemorySurface) Frames() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

// FileSurface writes each presented frame to Path as PNG, replacing the file atomically.
type FileSurface struct {
	Path string
}

// Present writes img; failures are logged since a surface has nobody to report to.
func (s FileSurface) Present(img image.Image) {
	if err := WritePNG(s.Path, img); err != nil {
		logging.Warnf("[chartkit] %v", err)
	}
}

// WritePNG encodes img to path via a temp file + rename.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Blank returns a solid frame used when rendering fails so the mount still updates.
func Blank(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, bg)
		}
	}
	return img
}
