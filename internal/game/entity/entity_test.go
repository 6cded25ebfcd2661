package entity

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

type flatGround float32

func (g flatGround) Height(x, z float32) float32   { return float32(g) }
func (g flatGround) Normal(x, z float32) math.Vec3 { return math.Up }

// ramp descends towards +X with a 45 degree slope.
type ramp struct{}

func (ramp) Height(x, z float32) float32 { return -x }
func (ramp) Normal(x, z float32) math.Vec3 {
	return math.Vec3{X: 1, Y: 1}.Normalize()
}

func request(id byte, model string) placement.Request {
	return placement.Request{
		InstanceID: uuid.UUID{id},
		Position:   math.Vec3{X: float32(id), Y: 2, Z: 3},
		Rotation:   1,
		Descriptor: placement.Descriptor{ID: id, Model: model, Scale: 2, Collidable: true, MaxInstances: 1},
	}
}

func TestNewFromRequest(t *testing.T) {
	e := New(request(7, "Building3"))
	if e.Model != "Building3" || e.TypeID != 7 || e.Scale != 2 || !e.Collidable || !e.Visible {
		t.Errorf("unexpected entity %+v", e)
	}
	if got := e.Transform().TransformPoint(math.Vec3{}); got != e.Position {
		t.Errorf("origin -> %+v, want %+v", got, e.Position)
	}
}

func TestManagerKeepsInsertionOrder(t *testing.T) {
	m := NewManager()
	for _, id := range []byte{5, 1, 9, 3} {
		m.Add(New(request(id, "m")))
	}
	m.Remove(uuid.UUID{9})
	m.Remove(uuid.UUID{42}) // unknown ids are ignored

	var got []byte
	for _, e := range m.All() {
		got = append(got, e.TypeID)
	}
	want := []byte{5, 1, 3}
	if string(got) != string(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if m.Count() != 3 {
		t.Errorf("Count = %d, want 3", m.Count())
	}
	if m.Get(uuid.UUID{1}) == nil {
		t.Error("Get(1) returned nil")
	}
}

func TestManagerQueries(t *testing.T) {
	m := NewManager()
	cone := New(request(1, "Cone"))
	cone.Kind = placement.KindCone
	hidden := New(request(2, "Building1"))
	hidden.Visible = false
	m.Add(cone)
	m.Add(hidden)
	m.Add(New(request(3, "Building1")))

	if got := len(m.ByKind(placement.KindCone)); got != 1 {
		t.Errorf("ByKind(cone) = %d, want 1", got)
	}
	if got := len(m.AllVisible()); got != 2 {
		t.Errorf("AllVisible = %d, want 2", got)
	}
	if got := m.CountByModel()["Building1"]; got != 2 {
		t.Errorf("CountByModel[Building1] = %d, want 2", got)
	}

	m.Clear()
	if m.Count() != 0 || len(m.All()) != 0 {
		t.Error("Clear left entities behind")
	}
}

func TestBodyRestsUntilPushed(t *testing.T) {
	b := NewBody(placement.PhysicsCone, math.Vec3{Y: 1})
	if b.Step(0.016, flatGround(1)) {
		t.Error("resting body moved")
	}
}

func TestBodyFallsAndSettles(t *testing.T) {
	b := NewBody(placement.PhysicsCone, math.Vec3{Y: 10})
	b.Push(math.Vec3{X: 2})

	for i := 0; i < 2000 && !b.Resting; i++ {
		b.Step(0.016, flatGround(0))
		if b.Position.Y < 0 {
			t.Fatalf("body sank below ground: %+v", b.Position)
		}
	}
	if !b.Resting {
		t.Fatalf("body never came to rest: %+v", b)
	}
	if b.Position.Y != 0 {
		t.Errorf("rest height = %v, want 0", b.Position.Y)
	}
	if b.Position.X <= 0 {
		t.Errorf("push had no effect: %+v", b.Position)
	}
}

func TestBodySlidesDownhill(t *testing.T) {
	b := NewBody(placement.PhysicsSheep, math.Vec3{})
	b.Push(math.Vec3{Y: -1}) // wake it without horizontal motion

	for i := 0; i < 20; i++ {
		b.Step(0.016, ramp{})
	}
	if b.Position.X <= 0 {
		t.Errorf("body did not slide downhill: %+v", b.Position)
	}
	if floor := -b.Position.X; math32.Abs(b.Position.Y-floor) > 0.5 {
		t.Errorf("body left the slope: %+v", b.Position)
	}
}

func TestEntityUpdateFollowsBody(t *testing.T) {
	e := New(request(1, "sheep"))
	if e.Update(0.016, flatGround(0)) {
		t.Error("entity without body moved")
	}

	e.Body = NewBody(placement.PhysicsSheep, e.Position)
	e.Body.Push(math.Vec3{Z: 40})
	if !e.Update(0.016, flatGround(0)) {
		t.Fatal("pushed entity did not move")
	}
	if e.Position != e.Body.Position {
		t.Errorf("entity at %+v, body at %+v", e.Position, e.Body.Position)
	}
}
