// Package level runs the load phase: rasters in, terrain and placement events out.
package level

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/config"
	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/internal/game/world"
	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/internal/manifest"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

// Level is a loaded level. Everything in it is read-only after loading.
type Level struct {
	Name      string
	HeightMap string
	ObjectMap string

	Terrain *terrain.Terrain
	Table   *placement.Table
	// Events are the placement events in decode order; empty for height-only levels.
	Events     []placement.Event
	ObjectSize int
}

// Load reads the configured rasters and builds the level.
func Load(cfg *config.Config) (*Level, error) {
	start := time.Now()
	log := logger.Named("level")

	table, err := cfg.Objects.Table()
	if err != nil {
		return nil, fmt.Errorf("building type table: %w", err)
	}

	heights, err := raster.DecodeFile(cfg.Level.HeightMap)
	if err != nil {
		return nil, fmt.Errorf("reading height map: %w", err)
	}

	var objects *raster.Raster
	if cfg.Level.ObjectMap != "" && !cfg.Level.Simple {
		objects, err = raster.DecodeFile(cfg.Level.ObjectMap)
		if err != nil {
			return nil, fmt.Errorf("reading object map: %w", err)
		}
	}

	l, err := Build(cfg.Level.Name, heights, objects, cfg.TerrainOptions(), table, cfg.Objects.MarginOffset)
	if err != nil {
		return nil, err
	}
	l.HeightMap = cfg.Level.HeightMap
	l.ObjectMap = cfg.Level.ObjectMap

	log.Info("level loaded",
		zap.String("name", l.Name),
		zap.Int("size", l.Terrain.Size()),
		zap.Int("object_size", l.ObjectSize),
		zap.Int("events", len(l.Events)),
		zap.Duration("took", time.Since(start)),
	)
	return l, nil
}

// Build constructs a level from rasters already in memory. objects may be nil.
func Build(name string, heights, objects *raster.Raster, opts terrain.Options, table *placement.Table, margin int) (*Level, error) {
	t, err := terrain.Build(heights, opts)
	if err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}

	l := &Level{Name: name, Terrain: t, Table: table}
	if objects == nil {
		return l, nil
	}

	dec := placement.NewDecoder(table, t.Transform(), t, placement.WithMargin(margin), placement.WithLevel(name))
	seq, err := dec.Decode(objects)
	if err != nil {
		return nil, fmt.Errorf("decoding object map: %w", err)
	}
	l.Events = placement.Events(seq)
	l.ObjectSize = objects.Width()
	return l, nil
}

// NewWorld creates a world over the level's terrain and applies its events.
func (l *Level) NewWorld() (*world.World, error) {
	w := world.New(l.Terrain)
	if err := w.Populate(l.Events); err != nil {
		return nil, fmt.Errorf("populating world: %w", err)
	}
	return w, nil
}

// Info returns the manifest summary of the level.
func (l *Level) Info() manifest.LevelInfo {
	return manifest.LevelInfo{
		Name:       l.Name,
		HeightMap:  l.HeightMap,
		ObjectMap:  l.ObjectMap,
		Size:       l.Terrain.Size(),
		ObjectSize: l.ObjectSize,
	}
}
