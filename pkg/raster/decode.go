package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Decode decodes raster bytes. format is a file extension ("png", ".tga", "bmp"); an empty
// format lets the standard image registry sniff the data.
func Decode(data []byte, format string) (*Raster, error) {
	var (
		img image.Image
		err error
	)

	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "tga":
		img, err = DecodeTGA(data)
	case "bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	case "png", "":
		img, _, err = image.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}

	return FromImage(img)
}

// DecodeFile reads and decodes a raster from disk, picking the decoder by extension.
func DecodeFile(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading raster %s: %w", path, err)
	}
	r, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// EncodePNG writes the raster as a PNG image.
func EncodePNG(w io.Writer, r *Raster) error {
	return png.Encode(w, r.Image())
}
