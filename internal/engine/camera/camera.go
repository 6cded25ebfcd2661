// Package camera provides the orbit camera used to inspect a terrain.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
	// Clearance is the minimum eye height above the ground.
	Clearance float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

var _ terrain.Camera = (*OrbitCamera)(nil)

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        600,
		RotationX:       0.6,
		FOV:             math32.Pi / 4,
		Aspect:          aspect,
		Near:            1,
		Far:             10000,
		MinDistance:     20,
		MaxDistance:     5000,
		MinPitch:        -0.2,
		MaxPitch:        1.5,
		Clearance:       5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := math32.Sincos(c.RotationX)
	sinY, cosY := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosX * sinY,
		Y: c.Distance * sinX,
		Z: c.Distance * cosX * cosY,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = min(max(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sinY, cosY := math32.Sincos(c.RotationY)

	// Negate forward so W moves "into" the scene
	c.Center.X += (-sinY*forward + cosY*right) * speed
	c.Center.Z += (-cosY*forward - sinY*right) * speed
	c.Center.Y += up * speed
}

// ClampToGround keeps the center on the ground and the eye at least Clearance
// above it, raising the pitch when the eye would dip below the surface.
// Returns true if the camera was adjusted.
func (c *OrbitCamera) ClampToGround(g terrain.Ground) bool {
	adjusted := false

	if floor := g.Height(c.Center.X, c.Center.Z); c.Center.Y < floor {
		c.Center.Y = floor
		adjusted = true
	}

	eye := c.Position()
	floor := g.Height(eye.X, eye.Z) + c.Clearance
	if eye.Y >= floor-1e-3 || c.Distance <= 0 {
		return adjusted
	}

	// Solve Center.Y + Distance*sin(pitch) = floor for the pitch.
	s := min(max((floor-c.Center.Y)/c.Distance, -1), 1)
	c.RotationX = min(math32.Asin(s), c.MaxPitch)
	return true
}

// FitToBounds adjusts the camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(b terrain.Bounds) {
	c.Center = b.Center()

	size := max(b.Max.X-b.Min.X, b.Max.Z-b.Min.Z)
	c.Distance = min(max(size*0.6, 200), c.MaxDistance)
	c.Far = max(c.Far, size*4)

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0
}
