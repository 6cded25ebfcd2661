package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/pkg/math"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// OffMapHeight is returned for grid lookups outside the map so that vehicles
// driving off the edge keep getting a defined (very low) ground.
const OffMapHeight float32 = -1000

// HeightField is a square grid of raw heights, one per raster pixel, taken from
// the red channel. It is immutable after construction.
type HeightField struct {
	size      int
	heights   []float32
	transform Transform
}

// NewHeightField builds heights from the raster's red channel multiplied by
// heightScale, placed in world space by t.
func NewHeightField(r *raster.Raster, heightScale float32, t Transform) (*HeightField, error) {
	if err := checkRaster(r); err != nil {
		return nil, err
	}
	if t.GridSize != r.Width() {
		return nil, fmt.Errorf("%w: transform sized for %d cells, raster has %d", ErrInvalidOptions, t.GridSize, r.Width())
	}

	size := r.Width()
	heights := make([]float32, size*size)
	for i := range heights {
		heights[i] = float32(r.Red(i)) * heightScale
	}

	return &HeightField{size: size, heights: heights, transform: t}, nil
}

// Size returns the grid edge length.
func (h *HeightField) Size() int {
	return h.size
}

// Transform returns the grid-to-world transform.
func (h *HeightField) Transform() Transform {
	return h.transform
}

// InBounds reports whether (x, z) is a grid cell.
func (h *HeightField) InBounds(x, z int) bool {
	return x >= 0 && x < h.size && z >= 0 && z < h.size
}

// At returns the raw height of grid cell (x, z), or OffMapHeight outside the grid.
func (h *HeightField) At(x, z int) float32 {
	if !h.InBounds(x, z) {
		return OffMapHeight
	}
	return h.heights[z*h.size+x]
}

// Position returns the world-space position of grid cell (x, z).
func (h *HeightField) Position(x, z int) math.Vec3 {
	return h.transform.GridToWorld(float32(x), float32(z), h.At(x, z))
}

// HeightAt returns the world-space ground elevation at world (wx, wz), bilinearly
// interpolated between the four surrounding grid heights. Cells past the edge
// contribute OffMapHeight, so the result falls away smoothly off the map.
func (h *HeightField) HeightAt(wx, wz float32) float32 {
	x, z := h.transform.WorldToGrid(wx, wz)

	fx0, fz0 := math32.Floor(x), math32.Floor(z)
	fx, fz := x-fx0, z-fz0
	ix, iz := int(fx0), int(fz0)

	v1 := h.At(ix, iz)
	v2 := h.At(ix+1, iz)
	v3 := h.At(ix, iz+1)
	v4 := h.At(ix+1, iz+1)

	i1 := v1 + (v2-v1)*fx
	i2 := v3 + (v4-v3)*fx
	return h.transform.HeightToWorld(i1 + (i2-i1)*fz)
}
