// Package rastergen synthesises height and object rasters from perlin noise,
// for fixtures and for levels without hand-painted maps.
package rastergen

import (
	"errors"
	"fmt"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// ErrInvalidSize is returned for non-positive raster sizes.
var ErrInvalidSize = errors.New("rastergen: invalid size")

const (
	// Noise periods across the whole raster.
	hillPeriods   = 3.0
	detailPeriods = 17.0
	scatterPeriod = 41.0
)

// Generator produces deterministic rasters for a seed.
type Generator struct {
	hills   *perlin.Perlin // broad rolling hills
	detail  *perlin.Perlin // bumps on top of the hills
	scatter *perlin.Perlin // object density
	heading *perlin.Perlin // object rotation
}

// New creates a generator with a seed.
func New(seed int64) *Generator {
	return &Generator{
		hills:   perlin.NewPerlin(2, 2, 3, seed),
		detail:  perlin.NewPerlin(1.5, 2, 4, seed+1),
		scatter: perlin.NewPerlin(2, 2, 2, seed+2),
		heading: perlin.NewPerlin(2, 2, 2, seed+3),
	}
}

// Heightmap returns a size x size grey raster; red carries the height.
func (g *Generator) Heightmap(size int) (*raster.Raster, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	pix := make([]byte, size*size*raster.BytesPerPixel)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			u, v := coord(x, size), coord(z, size)
			h := g.hills.Noise2D(u*hillPeriods, v*hillPeriods)*0.8 +
				g.detail.Noise2D(u*detailPeriods, v*detailPeriods)*0.2

			b := clampToByte((h + 1) * 127.5)
			i := (z*size + x) * raster.BytesPerPixel
			pix[i], pix[i+1], pix[i+2], pix[i+3] = b, b, b, 255
		}
	}
	return raster.New(size, size, pix)
}

// ObjectMap returns a size x size object raster. Pixels where the scatter noise
// exceeds 1-density get one of the table's types; the rest stay empty (red 0,
// which no built-in type uses).
func (g *Generator) ObjectMap(size int, table *placement.Table, density float64) (*raster.Raster, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	ids := table.IDs()
	density = min(max(density, 0), 1)

	pix := make([]byte, size*size*raster.BytesPerPixel)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			i := (z*size + x) * raster.BytesPerPixel
			pix[i+3] = 255
			if len(ids) == 0 || density == 0 {
				continue
			}

			u, v := coord(x, size), coord(z, size)
			s := (g.scatter.Noise2D(u*scatterPeriod, v*scatterPeriod) + 1) / 2
			if s < 1-density {
				continue
			}

			pick := int((s - (1 - density)) / density * float64(len(ids)))
			pix[i] = ids[min(pick, len(ids)-1)]
			pix[i+1] = clampToByte((g.heading.Noise2D(u*detailPeriods, v*detailPeriods) + 1) * 128)
		}
	}
	return raster.New(size, size, pix)
}

// coord maps a pixel index to [0,1), offset half a pixel so samples never sit
// on the integer lattice where perlin noise is zero.
func coord(i, size int) float64 {
	return (float64(i) + 0.5) / float64(size)
}

func clampToByte(f float64) byte {
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return byte(f)
	}
}
