package terrain

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/pkg/math"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// Options controls how raster values become world geometry.
type Options struct {
	// MapDimension is the world extent of the map along X and Z.
	MapDimension float32
	// HeightScale multiplies the red channel when building heights.
	HeightScale float32
	// VerticalScale and YOffset map raw heights to world Y.
	VerticalScale float32
	YOffset       float32
}

// DefaultOptions is the object-map driven convention: raw red values as height,
// one world unit per step, baseline at Y=1.
func DefaultOptions() Options {
	return Options{
		MapDimension:  DefaultMapDimension,
		HeightScale:   1,
		VerticalScale: 1,
		YOffset:       1,
	}
}

// SimpleOptions is the height-only convention with heights scaled by 0.02.
func SimpleOptions() Options {
	return Options{
		MapDimension:  DefaultMapDimension,
		HeightScale:   0.02,
		VerticalScale: 1,
		YOffset:       0,
	}
}

// Terrain is a built heightfield terrain: heights, normals, mesh and the shared
// transform. Queries are read-only and safe to call from any goroutine.
type Terrain struct {
	heights *HeightField
	normals *NormalField
	mesh    *Mesh
	world   math.Mat4
}

// Build constructs the full terrain from a height raster. Any failure aborts
// construction; no partial terrain is returned.
func Build(r *raster.Raster, opts Options) (*Terrain, error) {
	if err := checkRaster(r); err != nil {
		return nil, err
	}

	t, err := NewTransform(r.Width(), opts.MapDimension, opts.VerticalScale, opts.YOffset)
	if err != nil {
		return nil, err
	}

	heights, err := NewHeightField(r, opts.HeightScale, t)
	if err != nil {
		return nil, err
	}
	normals := NewNormalField(heights)

	mesh, err := BuildMesh(heights, normals)
	if err != nil {
		return nil, fmt.Errorf("building terrain mesh: %w", err)
	}

	logger.Named("terrain").Debug("terrain built",
		zap.Int("size", heights.Size()),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
		zap.Float32("cell_size", t.CellSize()),
	)

	return &Terrain{heights: heights, normals: normals, mesh: mesh, world: math.Identity()}, nil
}

// Size returns the grid edge length.
func (t *Terrain) Size() int {
	return t.heights.Size()
}

// Transform returns the grid-to-world transform shared by all queries.
func (t *Terrain) Transform() Transform {
	return t.heights.Transform()
}

// HeightField returns the underlying heights.
func (t *Terrain) HeightField() *HeightField {
	return t.heights
}

// Normals returns the precomputed per-cell normals.
func (t *Terrain) Normals() *NormalField {
	return t.normals
}

// Mesh returns the GPU-ready vertex and index data.
func (t *Terrain) Mesh() *Mesh {
	return t.mesh
}

// World returns the terrain's model matrix. Mesh vertices are already in world
// space, so this is a pure translation (identity unless moved).
func (t *Terrain) World() math.Mat4 {
	return t.world
}

// SetTranslation moves the rendered terrain. Height and normal queries are not
// affected.
func (t *Terrain) SetTranslation(v math.Vec3) {
	t.world = math.Translate(v)
}

// Bounds returns the world-space bounding box of the mesh.
func (t *Terrain) Bounds() Bounds {
	return t.mesh.Bounds
}

// NormalTexture returns the packed normal map (n/2 + 0.5 per channel).
func (t *Terrain) NormalTexture() *image.RGBA {
	return t.normals.Texture()
}

// Height returns the interpolated ground elevation at world (x, z).
func (t *Terrain) Height(x, z float32) float32 {
	return t.heights.HeightAt(x, z)
}

// Normal returns the ground normal of the grid cell containing world (x, z).
// Off the map the ground is treated as flat.
func (t *Terrain) Normal(x, z float32) math.Vec3 {
	gx, gz := t.Transform().WorldToGrid(x, z)
	ix, iz := int(math32.Floor(gx)), int(math32.Floor(gz))
	if !t.heights.InBounds(ix, iz) {
		return math.Up
	}
	return t.normals.At(ix, iz)
}

// Position returns the world position of grid cell (x, z).
func (t *Terrain) Position(x, z int) math.Vec3 {
	return t.heights.Position(x, z)
}
