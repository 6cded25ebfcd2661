package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Sunlight is a directional light whose orthographic frustum covers a box.
// It is the light camera the terrain shadow projector is built from.
type Sunlight struct {
	// Direction points from the sun towards the ground.
	Direction math.Vec3
	// Bounds is the region that must be covered by the shadow map.
	Bounds terrain.Bounds
}

var _ terrain.Light = Sunlight{}

// NewSunlight creates a sun shining along dir over bounds.
func NewSunlight(dir math.Vec3, bounds terrain.Bounds) Sunlight {
	return Sunlight{Direction: dir.Normalize(), Bounds: bounds}
}

// distance is how far the light eye sits from the box center.
func (s Sunlight) distance() float32 {
	return max(s.Bounds.Radius()*2, 1)
}

// Position returns the light eye position.
func (s Sunlight) Position() math.Vec3 {
	return s.Bounds.Center().Sub(s.Direction.Scale(s.distance()))
}

// ViewMatrix looks from the light eye towards the box center.
func (s Sunlight) ViewMatrix() math.Mat4 {
	// Avoid an up vector parallel with the light direction
	up := math.Up
	if math32.Abs(s.Direction.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	return math.LookAt(s.Position(), s.Bounds.Center(), up)
}

// ProjectionMatrix is an orthographic box sized to enclose the bounds.
func (s Sunlight) ProjectionMatrix() math.Mat4 {
	radius := max(s.Bounds.Radius(), 1)

	// Padding avoids edge artifacts
	padding := radius * 0.1
	halfSize := radius + padding
	far := s.distance() + radius + padding

	return math.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.1, far)
}

// ViewProjection returns projection * view, for the depth pass.
func (s Sunlight) ViewProjection() math.Mat4 {
	return s.ProjectionMatrix().Mul(s.ViewMatrix())
}

// LightDirection returns the unit vector from the ground towards the sun, the
// form lighting shaders expect.
func (s Sunlight) LightDirection() math.Vec3 {
	return s.Direction.Scale(-1)
}
