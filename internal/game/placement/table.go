// Package placement turns an object raster into spawn requests for the world.
//
// Each pixel's red channel selects an object type and its green channel the
// heading. Types carry a per-decode instance cap; pixels past the cap, and
// pixels whose red value maps to no type, are skipped silently.
package placement

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidDescriptor is returned when a type table entry is malformed.
	ErrInvalidDescriptor = errors.New("invalid object descriptor")
	// ErrDuplicateType is returned when two descriptors share a type id.
	ErrDuplicateType = errors.New("duplicate object type id")
)

// Kind selects how a spawned object is realised. It is resolved once when the
// table is built so spawners never compare model names.
type Kind uint8

const (
	KindModel Kind = iota // generic model loaded by name
	KindCone
	KindCheckpoint
)

var kindNames = [...]string{"model", "cone", "checkpoint"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	i := slices.Index(kindNames[:], strings.ToLower(string(b)))
	if i < 0 {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDescriptor, b)
	}
	*k = Kind(i)
	return nil
}

// KindForModel maps the special model names to their kinds.
func KindForModel(model string) Kind {
	switch strings.ToLower(model) {
	case "cone":
		return KindCone
	case "checkpoint":
		return KindCheckpoint
	default:
		return KindModel
	}
}

// Physics names the simulated body attached to a spawned object, if any.
type Physics uint8

const (
	PhysicsNone Physics = iota
	PhysicsCone
	PhysicsSheep
)

var physicsNames = [...]string{"none", "cone", "sheep"}

func (p Physics) String() string {
	if int(p) < len(physicsNames) {
		return physicsNames[p]
	}
	return fmt.Sprintf("physics(%d)", p)
}

// MarshalText implements encoding.TextMarshaler.
func (p Physics) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Physics) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	if s == "" {
		*p = PhysicsNone
		return nil
	}
	i := slices.Index(physicsNames[:], s)
	if i < 0 {
		return fmt.Errorf("%w: unknown physics %q", ErrInvalidDescriptor, b)
	}
	*p = Physics(i)
	return nil
}

// Descriptor describes one object type, keyed by a red-channel value.
type Descriptor struct {
	ID           uint8   `json:"id" yaml:"id"`
	Model        string  `json:"model" yaml:"model"`
	Scale        float32 `json:"scale" yaml:"scale"`
	Collidable   bool    `json:"collidable" yaml:"collidable"`
	Moveable     bool    `json:"moveable" yaml:"moveable"`
	MaxInstances int     `json:"max_instances" yaml:"max_instances"`
	Kind         Kind    `json:"kind" yaml:"kind"`
	Physics      Physics `json:"physics" yaml:"physics"`
}

// Validate checks the descriptor's fields.
func (d Descriptor) Validate() error {
	switch {
	case d.Model == "":
		return fmt.Errorf("%w: type %d has no model", ErrInvalidDescriptor, d.ID)
	case d.Scale <= 0:
		return fmt.Errorf("%w: type %d scale %v", ErrInvalidDescriptor, d.ID, d.Scale)
	case d.MaxInstances < 0:
		return fmt.Errorf("%w: type %d max instances %d", ErrInvalidDescriptor, d.ID, d.MaxInstances)
	}
	return nil
}

// Spawnable reports whether the descriptor can ever produce an instance.
func (d Descriptor) Spawnable() bool {
	return d.MaxInstances > 0
}

// Table maps red-channel values to descriptors. It is immutable once built;
// per-decode instance counters live in the decoder.
type Table struct {
	entries [256]*Descriptor
	ids     []uint8
}

// NewTable builds a table from descriptors. Descriptors with an unset kind get
// one derived from their model name.
func NewTable(descs ...Descriptor) (*Table, error) {
	t := &Table{}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if t.entries[d.ID] != nil {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateType, d.ID)
		}
		if d.Kind == KindModel {
			d.Kind = KindForModel(d.Model)
		}
		t.entries[d.ID] = &d
		t.ids = append(t.ids, d.ID)
	}
	slices.Sort(t.ids)
	return t, nil
}

// Lookup returns the descriptor for a type id.
func (t *Table) Lookup(id uint8) (Descriptor, bool) {
	d := t.entries[id]
	if d == nil {
		return Descriptor{}, false
	}
	return *d, true
}

// IDs returns the mapped type ids in ascending order.
func (t *Table) IDs() []uint8 {
	return slices.Clone(t.ids)
}

// Descriptors returns every descriptor in ascending id order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, *t.entries[id])
	}
	return out
}

// Len returns the number of mapped type ids.
func (t *Table) Len() int {
	return len(t.ids)
}

// Type ids with special meaning in object maps.
const (
	TypeCone       uint8 = 255
	TypeCheckpoint uint8 = 246
	TypeBridge     uint8 = 245
	TypeSheep      uint8 = 243
)

// DefaultDescriptors returns the built-in object types.
func DefaultDescriptors() []Descriptor {
	building := func(id uint8, n int, scale float32) Descriptor {
		return Descriptor{ID: id, Model: fmt.Sprintf("Building%d", n), Scale: scale, Collidable: true, MaxInstances: 5}
	}
	return []Descriptor{
		{ID: TypeCone, Model: "Cone", Scale: 1.5, MaxInstances: 50, Kind: KindCone, Physics: PhysicsCone},
		building(254, 1, 4),
		building(253, 2, 4),
		building(252, 3, 4),
		building(251, 4, 5),
		building(250, 5, 8),
		building(249, 6, 4),
		building(248, 7, 4),
		building(247, 8, 4),
		{ID: TypeCheckpoint, Model: "Checkpoint", Scale: 1, MaxInstances: 5, Kind: KindCheckpoint},
		{ID: TypeBridge, Model: "bridge", Scale: 7, Collidable: true, MaxInstances: 5},
		{ID: TypeSheep, Model: "sheep", Scale: 3, MaxInstances: 25, Physics: PhysicsSheep},
	}
}

// DefaultTable returns the built-in type table.
func DefaultTable() *Table {
	t, err := NewTable(DefaultDescriptors()...)
	if err != nil {
		panic(err)
	}
	return t
}
