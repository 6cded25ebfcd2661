// Package world owns the objects of a loaded level and applies placement
// events to them.
package world

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/entity"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/internal/logger"
)

var (
	// ErrDuplicateEntity is returned when an instance id is spawned twice.
	ErrDuplicateEntity = errors.New("entity already spawned")
	// ErrUnknownEntity is returned for events about an instance never spawned.
	ErrUnknownEntity = errors.New("unknown entity")
)

// World is the in-memory world manager for one level.
type World struct {
	ground   terrain.Ground
	entities *entity.Manager
	course   *Course
	log      *zap.Logger
}

var _ placement.WorldManager = (*World)(nil)

// New creates an empty world over the given ground.
func New(ground terrain.Ground) *World {
	return &World{
		ground:   ground,
		entities: entity.NewManager(),
		course:   &Course{},
		log:      logger.Named("world"),
	}
}

// Spawn implements placement.WorldManager.
func (w *World) Spawn(r placement.Request) error {
	if w.entities.Get(r.InstanceID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, r.InstanceID)
	}
	w.entities.Add(entity.New(r))
	return nil
}

// AttachPhysics implements placement.WorldManager.
func (w *World) AttachPhysics(id uuid.UUID, kind placement.Physics) error {
	e := w.entities.Get(id)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	e.Body = entity.NewBody(kind, e.Position)
	return nil
}

// RegisterCheckpoint implements placement.WorldManager.
func (w *World) RegisterCheckpoint(id uuid.UUID) error {
	e := w.entities.Get(id)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	w.course.Add(e.ID, e.Position)
	return nil
}

// Populate applies decoded placement events and logs a summary.
func (w *World) Populate(events []placement.Event) error {
	if err := placement.Apply(events, w); err != nil {
		return err
	}
	w.log.Info("world populated",
		zap.Int("entities", w.entities.Count()),
		zap.Int("checkpoints", w.course.Len()),
		zap.Any("models", w.entities.CountByModel()),
	)
	return nil
}

// Update advances physics by dt seconds.
func (w *World) Update(dt float32) {
	w.entities.Update(dt, w.ground)
}

// Entities returns the entity manager.
func (w *World) Entities() *entity.Manager {
	return w.entities
}

// Course returns the checkpoint course.
func (w *World) Course() *Course {
	return w.course
}

// Ground returns the height query the world simulates against.
func (w *World) Ground() terrain.Ground {
	return w.ground
}
