package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// ramp returns RGBA bytes for a width x width raster where pixel i has red=i, green=2i.
func ramp(width int) []byte {
	pix := make([]byte, width*width*BytesPerPixel)
	for i := 0; i < width*width; i++ {
		pix[i*4] = uint8(i)
		pix[i*4+1] = uint8(2 * i)
		pix[i*4+2] = 7
		pix[i*4+3] = 255
	}
	return pix
}

func TestNew(t *testing.T) {
	r, err := New(4, 4, ramp(4))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if r.Width() != 4 || r.Len() != 16 {
		t.Errorf("got width %d len %d, want 4 and 16", r.Width(), r.Len())
	}
	if r.Red(5) != 5 || r.Green(5) != 10 || r.Blue(5) != 7 {
		t.Errorf("pixel 5 = (%d,%d,%d), want (5,10,7)", r.Red(5), r.Green(5), r.Blue(5))
	}
	if got := r.At(1, 1); got.R != 5 {
		t.Errorf("At(1,1).R = %d, want 5", got.R)
	}
}

func TestNewCopiesPixels(t *testing.T) {
	pix := ramp(2)
	r, err := New(2, 2, pix)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	pix[0] = 99
	if r.Red(0) != 0 {
		t.Error("raster should not alias caller memory")
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		pix  []byte
		want error
	}{
		{"empty", 0, 0, nil, ErrEmpty},
		{"not square", 4, 2, ramp(4), ErrNotSquare},
		{"truncated", 4, 4, make([]byte, 10), ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h, tt.pix)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromImageRejectsRectangle(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 8, 4)))
	if !errors.Is(err, ErrNotSquare) {
		t.Errorf("FromImage() error = %v, want ErrNotSquare", err)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	r, err := New(8, 8, ramp(8))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, r); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "map.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	for i := 0; i < r.Len(); i++ {
		if got.Red(i) != r.Red(i) || got.Green(i) != r.Green(i) {
			t.Fatalf("pixel %d differs after round trip", i)
		}
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3}, "gif")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeBMP(t *testing.T) {
	r, err := New(4, 4, ramp(4))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, r.Image()); err != nil {
		t.Fatal(err)
	}

	got, err := Decode(buf.Bytes(), ".BMP")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	for i := 0; i < r.Len(); i++ {
		if got.Red(i) != r.Red(i) || got.Green(i) != r.Green(i) {
			t.Fatalf("pixel %d = (%d,%d), want (%d,%d)", i, got.Red(i), got.Green(i), r.Red(i), r.Green(i))
		}
	}
}

// tgaHeader builds an 18-byte TGA header.
func tgaHeader(imageType byte, w, h int, bpp byte, topToBottom bool) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	if topToBottom {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, true)
	// BGR pixels, top row first
	data = append(data,
		0, 0, 255, 0, 255, 0,
		255, 0, 0, 10, 20, 30,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{R: 30, G: 20, B: 10, A: 255}) {
		t.Errorf("pixel (1,1) = %v, want (30,20,10)", got)
	}
}

func TestDecodeTGABottomUp(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 1, 2, 24, false)
	data = append(data, 0, 0, 255, 255, 0, 0)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	// first pixel in file is the bottom row
	if got := img.RGBAAt(0, 1); got.R != 255 {
		t.Errorf("bottom pixel = %v, want red", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	data := tgaHeader(TGATypeRLE, 2, 2, 32, true)
	// one run packet covering all 4 pixels
	data = append(data, 0x83, 1, 2, 3, 200)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	want := color.RGBA{R: 3, G: 2, B: 1, A: 200}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDecodeTGATruncatedRLE(t *testing.T) {
	data := tgaHeader(TGATypeRLE, 2, 2, 24, true)
	data = append(data, 0x81, 1, 2, 3)

	_, err := DecodeTGA(data)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("DecodeTGA() error = %v, want ErrTruncated", err)
	}
}

func TestDecodeTGAViaDecode(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, true)
	data = append(data, make([]byte, 12)...)
	r, err := Decode(data, ".TGA")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if r.Width() != 2 {
		t.Errorf("width = %d, want 2", r.Width())
	}
}
