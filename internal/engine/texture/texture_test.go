package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestToRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 6, 5))
	src.SetGray(2, 3, color.Gray{Y: 200})

	got := ToRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v, want (0,0)-(4,2)", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{200, 200, 200, 255}) {
		t.Errorf("pixel = %v, want gray 200", c)
	}
}

func TestToRGBASameImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got := ToRGBA(src); got != src {
		t.Error("ToRGBA copied an RGBA image already at the origin")
	}
}

func TestSolidAndChecker(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	s := Solid(red, 3)
	if c := s.RGBAAt(2, 2); c != red {
		t.Errorf("Solid(2,2) = %v, want %v", c, red)
	}

	c := Checker(red, blue, 8, 2)
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, red},
		{1, 1, red},
		{2, 0, blue},
		{0, 2, blue},
		{2, 2, red},
	}
	for _, tt := range tests {
		if got := c.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("Checker(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
