package terrain

import (
	"fmt"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

// DefaultMapDimension is the world-space edge length every map occupies,
// whatever the raster resolution.
const DefaultMapDimension = 2048

// Transform maps raster grid space to world space:
//
//	world = (x, height, z) * Scale + Offset
//
// X/Z scale is MapDimension/gridSize, so a map always spans the same world area,
// and the offset centres the map on the origin.
type Transform struct {
	Scale     math.Vec3
	Offset    math.Vec3
	Dimension float32
	GridSize  int
}

// NewTransform derives the transform for a square grid of gridSize cells.
func NewTransform(gridSize int, dimension, verticalScale, yOffset float32) (Transform, error) {
	if gridSize <= 0 {
		return Transform{}, fmt.Errorf("%w: grid size %d", ErrInvalidOptions, gridSize)
	}
	if dimension <= 0 || verticalScale == 0 {
		return Transform{}, fmt.Errorf("%w: dimension %v vertical scale %v", ErrInvalidOptions, dimension, verticalScale)
	}

	cell := dimension / float32(gridSize)
	return Transform{
		Scale:     math.Vec3{X: cell, Y: verticalScale, Z: cell},
		Offset:    math.Vec3{X: -dimension / 2, Y: yOffset, Z: -dimension / 2},
		Dimension: dimension,
		GridSize:  gridSize,
	}, nil
}

// ForGrid returns a transform sharing this map's dimension and offset but
// sized for a raster of a different resolution (e.g. the object map).
func (t Transform) ForGrid(gridSize int) (Transform, error) {
	return NewTransform(gridSize, t.Dimension, t.Scale.Y, t.Offset.Y)
}

// GridToWorld converts a grid position and raw height to world space.
func (t Transform) GridToWorld(x, z, height float32) math.Vec3 {
	return math.Vec3{X: x, Y: height, Z: z}.Mul(t.Scale).Add(t.Offset)
}

// WorldToGrid converts world X/Z to fractional grid coordinates.
func (t Transform) WorldToGrid(wx, wz float32) (x, z float32) {
	return (wx - t.Offset.X) / t.Scale.X, (wz - t.Offset.Z) / t.Scale.Z
}

// HeightToWorld converts a raw grid height to world Y.
func (t Transform) HeightToWorld(h float32) float32 {
	return h*t.Scale.Y + t.Offset.Y
}

// CellSize returns the world-space width of one grid cell.
func (t Transform) CellSize() float32 {
	return t.Scale.X
}
