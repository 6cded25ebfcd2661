package entity

import (
	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Gravity in world units per second squared.
const Gravity = 9.81

// restSpeed is the speed below which a grounded body stops.
const restSpeed = 0.05

// Body is a point mass that falls onto, bounces off and slides along the ground.
type Body struct {
	Kind     placement.Physics
	Position math.Vec3
	Velocity math.Vec3

	Mass        float32
	Restitution float32 // fraction of normal speed kept on impact
	Friction    float32 // per-second velocity damping while grounded

	Resting bool
}

// NewBody creates a body of the given kind resting at pos.
func NewBody(kind placement.Physics, pos math.Vec3) *Body {
	b := &Body{Kind: kind, Position: pos, Resting: true}
	switch kind {
	case placement.PhysicsCone:
		b.Mass, b.Restitution, b.Friction = 2, 0.4, 2.5
	case placement.PhysicsSheep:
		b.Mass, b.Restitution, b.Friction = 40, 0.1, 4
	default:
		b.Mass, b.Restitution, b.Friction = 1, 0.2, 3
	}
	return b
}

// Push applies an impulse and wakes the body.
func (b *Body) Push(impulse math.Vec3) {
	b.Velocity = b.Velocity.Add(impulse.Scale(1 / b.Mass))
	b.Resting = false
}

// Step integrates the body over dt seconds. Returns true if it moved.
func (b *Body) Step(dt float32, ground terrain.Ground) bool {
	if b.Resting || dt <= 0 {
		return false
	}

	b.Velocity.Y -= Gravity * dt
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	floor := ground.Height(b.Position.X, b.Position.Z)
	if b.Position.Y > floor {
		return true
	}

	// Grounded: cancel the speed into the surface and bounce part of it back.
	b.Position.Y = floor
	n := ground.Normal(b.Position.X, b.Position.Z)
	if vn := b.Velocity.Dot(n); vn < 0 {
		b.Velocity = b.Velocity.Sub(n.Scale(vn * (1 + b.Restitution)))
	}
	b.Velocity = b.Velocity.Scale(max(0, 1-b.Friction*dt))

	if b.Velocity.Length() < restSpeed {
		b.Velocity = math.Vec3{}
		b.Resting = true
	}
	return true
}
