// Package artifacts isolates the diagnostic-image side channel. The
// analyzer emits named maps through a Sink; verdicts never depend on
// whether emission succeeded.
package artifacts

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Sink receives named diagnostic images for one analysis run.
type Sink interface {
	Write(name string, img image.Image) error
}

// NopSink discards all artifacts. The default for tests and for
// callers that did not ask for diagnostics.
type NopSink struct{}

func (NopSink) Write(string, image.Image) error { return nil }

// DirSink writes artifacts as PNG files into a directory. Page-unique
// names are the caller's responsibility so parallel pages never
// collide.
type DirSink struct {
	dir string
}

// NewDirSink creates the output directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Write(name string, img image.Image) error {
	f, err := os.Create(filepath.Join(s.dir, name+".png"))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// GrayImage wraps a byte plane as an image for sink emission.
func GrayImage(plane []uint8, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w], plane[y*w:(y+1)*w])
	}
	return img
}
