package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// Terrain construction errors.
var (
	ErrInvalidRaster  = errors.New("invalid terrain raster")
	ErrInvalidOptions = errors.New("invalid terrain options")
	ErrGridTooSmall   = errors.New("terrain grid too small for a mesh")
)

// invalidRaster wraps a raster failure so callers can match ErrInvalidRaster
// while still seeing the underlying raster error.
func invalidRaster(err error) error {
	if errors.Is(err, ErrInvalidRaster) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidRaster, err)
}

// checkRaster enforces the square, non-empty contract.
func checkRaster(r *raster.Raster) error {
	if r == nil || r.Width() == 0 {
		return invalidRaster(raster.ErrEmpty)
	}
	return nil
}
