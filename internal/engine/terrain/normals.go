package terrain

import (
	"image"
	"image/color"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

// NormalField holds one unit normal per grid cell, derived from central height
// differences. Edge cells use one-sided differences against the nearest valid
// neighbour instead of reading past the grid.
type NormalField struct {
	size    int
	normals []math.Vec3
}

// NewNormalField precomputes normals for every cell of h.
func NewNormalField(h *HeightField) *NormalField {
	n := &NormalField{
		size:    h.size,
		normals: make([]math.Vec3, h.size*h.size),
	}
	for z := 0; z < h.size; z++ {
		for x := 0; x < h.size; x++ {
			n.normals[z*h.size+x] = gridNormal(h, x, z)
		}
	}
	return n
}

// gridNormal crosses the world-space X and Z tangents at (x, z).
func gridNormal(h *HeightField, x, z int) math.Vec3 {
	x0, x1 := max(x-1, 0), min(x+1, h.size-1)
	z0, z1 := max(z-1, 0), min(z+1, h.size-1)
	if x0 == x1 || z0 == z1 {
		return math.Up
	}

	s := h.transform.Scale
	tx := math.Vec3{
		X: float32(x1-x0) * s.X,
		Y: (h.At(x1, z) - h.At(x0, z)) * s.Y,
	}
	tz := math.Vec3{
		Y: (h.At(x, z1) - h.At(x, z0)) * s.Y,
		Z: float32(z1-z0) * s.Z,
	}

	return tz.Cross(tx).Normalize()
}

// Size returns the grid edge length.
func (n *NormalField) Size() int {
	return n.size
}

// At returns the normal of cell (x, z), clamping coordinates onto the grid.
func (n *NormalField) At(x, z int) math.Vec3 {
	x = min(max(x, 0), n.size-1)
	z = min(max(z, 0), n.size-1)
	return n.normals[z*n.size+x]
}

// PackNormal remaps each component from [-1,1] to [0,255] (n/2 + 0.5).
func PackNormal(v math.Vec3) color.RGBA {
	return color.RGBA{
		R: packComponent(v.X),
		G: packComponent(v.Y),
		B: packComponent(v.Z),
		A: 255,
	}
}

// UnpackNormal reverses PackNormal, up to 8-bit quantisation.
func UnpackNormal(c color.RGBA) math.Vec3 {
	return math.Vec3{
		X: float32(c.R)/255*2 - 1,
		Y: float32(c.G)/255*2 - 1,
		Z: float32(c.B)/255*2 - 1,
	}
}

func packComponent(f float32) uint8 {
	v := (f/2 + 0.5) * 255
	return uint8(min(max(v+0.5, 0), 255))
}

// Texture exports the field as a normal map image in vertex order, for shader use.
func (n *NormalField) Texture() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n.size, n.size))
	for z := 0; z < n.size; z++ {
		for x := 0; x < n.size; x++ {
			img.SetRGBA(x, z, PackNormal(n.normals[z*n.size+x]))
		}
	}
	return img
}
