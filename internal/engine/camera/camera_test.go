package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

type flatGround float32

func (g flatGround) Height(x, z float32) float32   { return float32(g) }
func (g flatGround) Normal(x, z float32) math.Vec3 { return math.Up }

func TestPositionOrbit(t *testing.T) {
	c := NewOrbitCamera(1)
	c.Center = math.Vec3{X: 10, Y: 0, Z: 10}
	c.Distance = 100
	c.RotationX = 0
	c.RotationY = 0

	if got := c.Position(); got.Distance(math.Vec3{X: 10, Y: 0, Z: 110}) > 1e-3 {
		t.Errorf("Position = %+v", got)
	}

	c.RotationX = math32.Pi / 2
	if got := c.Position(); got.Distance(math.Vec3{X: 10, Y: 100, Z: 10}) > 1e-3 {
		t.Errorf("Position looking down = %+v", got)
	}
}

func TestViewMatrixLooksAtCenter(t *testing.T) {
	c := NewOrbitCamera(16.0 / 9)
	c.Center = math.Vec3{X: 5, Y: 2, Z: -3}

	p := c.ViewMatrix().TransformPoint(c.Center)
	if math32.Abs(p.X) > 1e-3 || math32.Abs(p.Y) > 1e-3 || math32.Abs(p.Z+c.Distance) > 1e-2 {
		t.Errorf("center in view space = %+v, want (0, 0, -%v)", p, c.Distance)
	}
}

func TestZoomAndDragClamp(t *testing.T) {
	c := NewOrbitCamera(1)
	for i := 0; i < 200; i++ {
		c.HandleZoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want min %v", c.Distance, c.MinDistance)
	}

	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("RotationX = %v, want max %v", c.RotationX, c.MaxPitch)
	}
}

func TestClampToGround(t *testing.T) {
	c := NewOrbitCamera(1)
	c.Center = math.Vec3{Y: 0}
	c.Distance = 100
	c.RotationX = -0.2 // eye below the center
	c.Clearance = 5

	if !c.ClampToGround(flatGround(10)) {
		t.Fatal("expected adjustment")
	}
	if c.Center.Y != 10 {
		t.Errorf("center Y = %v, want 10", c.Center.Y)
	}
	if eye := c.Position(); eye.Y < 15-1e-3 {
		t.Errorf("eye Y = %v, want >= 15", eye.Y)
	}

	if c.ClampToGround(flatGround(10)) {
		t.Error("second clamp should be a no-op")
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera(1)
	c.FitToBounds(terrain.Bounds{
		Min: math.Vec3{X: -1024, Y: 0, Z: -1024},
		Max: math.Vec3{X: 1024, Y: 200, Z: 1024},
	})
	if c.Center != (math.Vec3{Y: 100}) {
		t.Errorf("Center = %+v", c.Center)
	}
	if c.Far < 2048 {
		t.Errorf("Far = %v, too close to see the map", c.Far)
	}
}
