package world

import (
	"github.com/google/uuid"

	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Checkpoint is one gate of the course.
type Checkpoint struct {
	ID       uuid.UUID
	Position math.Vec3
}

// Course is the ordered list of checkpoints, in registration order.
type Course struct {
	checkpoints []Checkpoint
	next        int
	laps        int
}

// Add appends a checkpoint.
func (c *Course) Add(id uuid.UUID, pos math.Vec3) {
	c.checkpoints = append(c.checkpoints, Checkpoint{ID: id, Position: pos})
}

// Len returns the number of checkpoints.
func (c *Course) Len() int {
	return len(c.checkpoints)
}

// Checkpoints returns the checkpoints in course order.
func (c *Course) Checkpoints() []Checkpoint {
	return c.checkpoints
}

// Next returns the checkpoint to pass next.
func (c *Course) Next() (Checkpoint, bool) {
	if len(c.checkpoints) == 0 {
		return Checkpoint{}, false
	}
	return c.checkpoints[c.next], true
}

// Index returns the position of the next checkpoint in course order.
func (c *Course) Index() int {
	return c.next
}

// Laps returns the number of completed laps.
func (c *Course) Laps() int {
	return c.laps
}

// Pass advances the course if pos is within radius of the next checkpoint on
// the ground plane. Returns true when a checkpoint was passed.
func (c *Course) Pass(pos math.Vec3, radius float32) bool {
	cp, ok := c.Next()
	if !ok || cp.Position.XZ().Distance(pos.XZ()) > radius {
		return false
	}
	c.next++
	if c.next == len(c.checkpoints) {
		c.next = 0
		c.laps++
	}
	return true
}

// Reset restarts the course.
func (c *Course) Reset() {
	c.next = 0
	c.laps = 0
}
