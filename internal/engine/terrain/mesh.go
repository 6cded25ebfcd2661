package terrain

import (
	"fmt"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

// IndexCount returns the strip index count for a size x size grid:
// 2*size*(1+internalRows) + 2*internalRows with internalRows = size-2.
func IndexCount(size int) int {
	internalRows := size - 2
	return 2*size*(1+internalRows) + 2*internalRows
}

// BuildMesh generates one vertex per grid cell and a single triangle strip
// covering the grid. The result is a snapshot; it does not track later changes.
func BuildMesh(h *HeightField, n *NormalField) (*Mesh, error) {
	size := h.Size()
	if size < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridTooSmall, size, size)
	}
	if n.Size() != size {
		return nil, fmt.Errorf("%w: normal field %d does not match heightfield %d", ErrInvalidOptions, n.Size(), size)
	}

	mesh := &Mesh{
		Size:     size,
		Vertices: make([]Vertex, size*size),
		Indices:  StripIndices(size),
	}

	uvStep := 1 / float32(size-1)
	first := h.Position(0, 0)
	mesh.Bounds = Bounds{Min: first, Max: first}

	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			pos := h.Position(x, z)
			mesh.Bounds.extend(pos)
			mesh.Vertices[z*size+x] = Vertex{
				Position: pos.Array(),
				Normal:   n.At(x, z).Array(),
				TexCoord: math.Vec2{X: float32(x) * uvStep, Y: float32(z) * uvStep}.Array(),
			}
		}
	}

	return mesh, nil
}

// StripIndices builds the index list for a size x size grid drawn as one
// triangle strip. Each row pair is interleaved (x,z),(x,z+1); rows are joined by
// repeating the last index of one row and the first index of the next, which
// yields zero-area triangles the rasterizer skips.
func StripIndices(size int) []uint32 {
	if size < 2 {
		return nil
	}

	idx := func(x, z int) uint32 { return uint32(z*size + x) }
	indices := make([]uint32, 0, IndexCount(size))

	for z := 0; z < size-1; z++ {
		if z > 0 {
			indices = append(indices, idx(0, z))
		}
		for x := 0; x < size; x++ {
			indices = append(indices, idx(x, z), idx(x, z+1))
		}
		if z < size-2 {
			indices = append(indices, idx(size-1, z))
		}
	}

	return indices
}
