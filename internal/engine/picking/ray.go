// Package picking casts rays from the screen into the terrain and its objects.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Lens is the perspective a ray is cast through.
type Lens struct {
	Eye    math.Vec3
	Target math.Vec3
	FOV    float32 // vertical, radians
	Aspect float32
}

// ScreenToRay converts pixel coordinates to a world-space ray through the lens.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, l Lens) Ray {
	// Normalized device coords (-1 to 1), Y up
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	forward := l.Target.Sub(l.Eye).Normalize()
	right := forward.Cross(math.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := math32.Tan(l.FOV / 2)
	dir := forward.
		Add(right.Scale(ndcX * tanHalf * l.Aspect)).
		Add(up.Scale(ndcY * tanHalf))

	return Ray{Origin: l.Eye, Direction: dir.Normalize()}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectGround marches along the ray in steps of step until it passes below
// the ground, then bisects to the surface. Off-map samples read the ground's
// sentinel height, so rays leaving the map never hit.
func (r Ray) IntersectGround(g terrain.Ground, maxDist, step float32) (math.Vec3, bool) {
	if step <= 0 {
		return math.Vec3{}, false
	}

	above := func(t float32) bool {
		p := r.At(t)
		return p.Y >= g.Height(p.X, p.Z)
	}

	if !above(0) {
		return math.Vec3{}, false
	}

	prev := float32(0)
	for t := step; t <= maxDist+step; t += step {
		t = min(t, maxDist)
		if !above(t) {
			lo, hi := prev, t
			for range 24 {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At(hi), true
		}
		if t == maxDist {
			break
		}
		prev = t
	}
	return math.Vec3{}, false
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// BoxAABB bounds a unit box standing on y=0 after transform m. The box is the
// one drawn for placed objects.
func BoxAABB(m math.Mat4) AABB {
	first := m.TransformPoint(math.Vec3{X: -0.5, Z: -0.5})
	box := AABB{Min: first, Max: first}
	for _, x := range []float32{-0.5, 0.5} {
		for _, y := range []float32{0, 1} {
			for _, z := range []float32{-0.5, 0.5} {
				p := m.TransformPoint(math.Vec3{X: x, Y: y, Z: z})
				box.Min = math.Vec3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
				box.Max = math.Vec3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
			}
		}
	}
	return box
}

// Nearest returns the index of the closest box hit by the ray and its distance,
// or -1 if none is hit.
func (r Ray) Nearest(boxes []AABB) (int, float32) {
	best, bestT := -1, float32(math32.MaxFloat32)
	for i, b := range boxes {
		if t, ok := r.IntersectAABB(b); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best, bestT
}
