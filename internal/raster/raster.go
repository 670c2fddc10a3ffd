package raster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Raster is a decoded document page: an 8-bit, 3-channel RGB pixel
// buffer at the working resolution. A Raster is treated as immutable
// once produced; analysis code derives views from it but never writes
// back into Pix.
type Raster struct {
	Width  int
	Height int
	// Pix holds RGB samples in row-major order, 3 bytes per pixel.
	Pix []uint8
}

// FromImage converts any decoded image into an RGB raster, dropping
// alpha. The analyzer assumes 8-bit channels throughout.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	r := &Raster{Width: w, Height: h, Pix: make([]uint8, w*h*3)}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			src := rgba.Pix[y*rgba.Stride:]
			dst := r.Pix[y*w*3:]
			for x := 0; x < w; x++ {
				dst[x*3+0] = src[x*4+0]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+2]
			}
		}
		return r
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r.Pix[i+0] = uint8(cr >> 8)
			r.Pix[i+1] = uint8(cg >> 8)
			r.Pix[i+2] = uint8(cb >> 8)
			i += 3
		}
	}
	return r
}

// Decode reads and decodes a JPEG or PNG page image into a raster.
func Decode(rd io.Reader) (*Raster, error) {
	img, _, err := image.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	return FromImage(img), nil
}

// ToImage materializes the raster as an RGBA image, used for JPEG
// re-encoding and diagnostic overlays.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		src := r.Pix[y*r.Width*3:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < r.Width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 255
		}
	}
	return img
}

// ResizeToWidth resamples the raster to the given working width,
// preserving aspect ratio. Rasters already at or below the target
// width are returned unchanged.
func (r *Raster) ResizeToWidth(targetWidth int) *Raster {
	if targetWidth <= 0 || r.Width <= targetWidth {
		return r
	}
	targetHeight := (r.Height*targetWidth + r.Width/2) / r.Width
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), r.ToImage(), image.Rect(0, 0, r.Width, r.Height), xdraw.Src, nil)
	return FromImage(dst)
}

// Gray derives the luminance plane used by the forensic signal chain.
func (r *Raster) Gray() []float64 {
	gray := make([]float64, r.Width*r.Height)
	for i := range gray {
		p := r.Pix[i*3:]
		gray[i] = 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
	}
	return gray
}

// At returns the RGB sample at (x, y). Callers must stay in bounds.
func (r *Raster) At(x, y int) (uint8, uint8, uint8) {
	i := (y*r.Width + x) * 3
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}
