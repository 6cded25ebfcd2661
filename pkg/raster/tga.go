package raster

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA image.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) files at 24 or 32 bpp.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: TGA header", ErrTruncated)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedFormat)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedFormat, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupportedFormat, bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: TGA id field", ErrTruncated)
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.bpp {
			return nil, fmt.Errorf("%w: TGA pixels", ErrTruncated)
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.read())
		}
		return d.img, nil
	}

	if err := d.decodeRLE(); err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	src           []byte
	pos           int
	width, height int
	bpp           int
	topToBottom   bool
}

// read consumes one BGR(A) pixel.
func (d *tgaDecoder) read() color.RGBA {
	p := d.src[d.pos : d.pos+d.bpp]
	d.pos += d.bpp
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bpp == 4 {
		c.A = p[3]
	}
	return c
}

// put stores the n-th pixel in file order, flipping bottom-up files.
func (d *tgaDecoder) put(n int, c color.RGBA) {
	x, y := n%d.width, n/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	n := 0
	for n < total {
		if d.pos >= len(d.src) {
			return fmt.Errorf("%w: TGA RLE stream ended at pixel %d of %d", ErrTruncated, n, total)
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if d.pos+d.bpp > len(d.src) {
				return fmt.Errorf("%w: TGA RLE packet", ErrTruncated)
			}
			c := d.read()
			for i := 0; i < count && n < total; i++ {
				d.put(n, c)
				n++
			}
			continue
		}

		for i := 0; i < count && n < total; i++ {
			if d.pos+d.bpp > len(d.src) {
				return fmt.Errorf("%w: TGA raw packet", ErrTruncated)
			}
			d.put(n, d.read())
			n++
		}
	}
	return nil
}
