// Package raster provides read access to square 8-bit RGBA rasters used as terrain source data.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Raster errors.
var (
	ErrEmpty             = errors.New("raster is empty")
	ErrNotSquare         = errors.New("raster is not square")
	ErrTruncated         = errors.New("raster pixel data truncated")
	ErrUnsupportedFormat = errors.New("unsupported raster format")
)

// BytesPerPixel is the stride of one RGBA pixel.
const BytesPerPixel = 4

// Raster is an immutable square grid of RGBA pixels stored row-major.
type Raster struct {
	width int
	pix   []byte
}

// New creates a raster from RGBA bytes. The pixel slice is copied.
func New(width, height int, pix []byte) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmpty
	}
	if width != height {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, width, height)
	}
	if len(pix) < width*height*BytesPerPixel {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrTruncated, len(pix), width*height*BytesPerPixel)
	}

	owned := make([]byte, width*height*BytesPerPixel)
	copy(owned, pix)
	return &Raster{width: width, pix: owned}, nil
}

// FromImage converts any image.Image into a raster.
func FromImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}
	if w != h {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, w, h)
	}

	pix := make([]byte, w*h*BytesPerPixel)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := (y*w + x) * BytesPerPixel
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
		}
	}
	return &Raster{width: w, pix: pix}, nil
}

// Width returns the edge length in pixels.
func (r *Raster) Width() int {
	return r.width
}

// Len returns the number of pixels.
func (r *Raster) Len() int {
	return r.width * r.width
}

// Red returns the red channel of the i-th pixel in row-major order.
func (r *Raster) Red(i int) uint8 {
	return r.pix[i*BytesPerPixel]
}

// Green returns the green channel of the i-th pixel in row-major order.
func (r *Raster) Green(i int) uint8 {
	return r.pix[i*BytesPerPixel+1]
}

// Blue returns the blue channel of the i-th pixel in row-major order.
func (r *Raster) Blue(i int) uint8 {
	return r.pix[i*BytesPerPixel+2]
}

// At returns the pixel at column x, row y.
func (r *Raster) At(x, y int) color.RGBA {
	i := (y*r.width + x) * BytesPerPixel
	return color.RGBA{R: r.pix[i], G: r.pix[i+1], B: r.pix[i+2], A: r.pix[i+3]}
}

// Image returns an RGBA image sharing no memory with the raster.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.width))
	copy(img.Pix, r.pix)
	return img
}
