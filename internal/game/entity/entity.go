// Package entity holds the objects spawned into a level and their simple
// physics bodies.
package entity

import (
	"slices"

	"github.com/google/uuid"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// Entity is one spawned object.
type Entity struct {
	ID     uuid.UUID
	TypeID uint8
	Model  string
	Kind   placement.Kind

	Position math.Vec3
	Rotation float32 // radians about +Y
	Scale    float32

	Collidable bool
	Moveable   bool
	Visible    bool

	// Body is set when the object is physics driven.
	Body *Body
}

// New creates an entity from a placement request.
func New(r placement.Request) *Entity {
	d := r.Descriptor
	return &Entity{
		ID:         r.InstanceID,
		TypeID:     d.ID,
		Model:      d.Model,
		Kind:       d.Kind,
		Position:   r.Position,
		Rotation:   r.Rotation,
		Scale:      d.Scale,
		Collidable: d.Collidable,
		Moveable:   d.Moveable,
		Visible:    true,
	}
}

// Transform returns the model matrix: rotate, scale, then translate.
func (e *Entity) Transform() math.Mat4 {
	return math.Translate(e.Position).
		Mul(math.Scale(e.Scale)).
		Mul(math.RotateY(e.Rotation))
}

// Update advances the entity's body, if any. Returns true if it moved.
func (e *Entity) Update(dt float32, ground terrain.Ground) bool {
	if e.Body == nil {
		return false
	}
	moved := e.Body.Step(dt, ground)
	e.Position = e.Body.Position
	return moved
}

// Manager owns all entities of a level. Iteration follows insertion order.
type Manager struct {
	entities map[uuid.UUID]*Entity
	order    []uuid.UUID
}

// NewManager creates a new entity manager.
func NewManager() *Manager {
	return &Manager{
		entities: make(map[uuid.UUID]*Entity),
	}
}

// Add adds an entity, replacing any entity with the same ID.
func (m *Manager) Add(e *Entity) {
	if _, ok := m.entities[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.entities[e.ID] = e
}

// Remove removes an entity.
func (m *Manager) Remove(id uuid.UUID) {
	if _, ok := m.entities[id]; !ok {
		return
	}
	delete(m.entities, id)
	m.order = slices.DeleteFunc(m.order, func(o uuid.UUID) bool { return o == id })
}

// Get returns an entity by ID.
func (m *Manager) Get(id uuid.UUID) *Entity {
	return m.entities[id]
}

// Update steps every physics-driven entity. Returns the number that moved.
func (m *Manager) Update(dt float32, ground terrain.Ground) int {
	moved := 0
	for _, id := range m.order {
		if m.entities[id].Update(dt, ground) {
			moved++
		}
	}
	return moved
}

// All returns all entities.
func (m *Manager) All() []*Entity {
	result := make([]*Entity, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.entities[id])
	}
	return result
}

// AllVisible returns all visible entities.
func (m *Manager) AllVisible() []*Entity {
	result := make([]*Entity, 0, len(m.order))
	for _, id := range m.order {
		if e := m.entities[id]; e.Visible {
			result = append(result, e)
		}
	}
	return result
}

// ByKind returns all entities of a specific kind.
func (m *Manager) ByKind(kind placement.Kind) []*Entity {
	var result []*Entity
	for _, id := range m.order {
		if e := m.entities[id]; e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// Count returns the total number of entities.
func (m *Manager) Count() int {
	return len(m.entities)
}

// CountByModel returns the number of entities per model name.
func (m *Manager) CountByModel() map[string]int {
	counts := make(map[string]int)
	for _, e := range m.entities {
		counts[e.Model]++
	}
	return counts
}

// Clear removes all entities.
func (m *Manager) Clear() {
	m.entities = make(map[uuid.UUID]*Entity)
	m.order = nil
}
