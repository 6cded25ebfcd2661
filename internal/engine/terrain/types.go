// Package terrain builds a static heightfield terrain from a height raster: the
// grid-to-world transform, height and normal queries, and a strip-indexed mesh.
package terrain

import "github.com/Faultbox/rally-terrain/pkg/math"

// Vertex is one terrain mesh vertex. The layout matches the GPU attribute layout:
// position (location 0), normal (location 1), texcoord (location 2).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds the terrain vertex and index data ready for GPU upload.
// Indices describe a single triangle strip with degenerate links between rows.
type Mesh struct {
	Size     int
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// PrimitiveCount returns the number of strip triangles, degenerate ones included.
func (m *Mesh) PrimitiveCount() int {
	if len(m.Indices) < 3 {
		return 0
	}
	return len(m.Indices) - 2
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the half-diagonal of the box.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Length() / 2
}

func (b *Bounds) extend(p math.Vec3) {
	b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
	b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
}

// Ground answers elevation and slope queries in world space.
// Physics and camera code depend on this rather than on *Terrain.
type Ground interface {
	Height(x, z float32) float32
	Normal(x, z float32) math.Vec3
}
