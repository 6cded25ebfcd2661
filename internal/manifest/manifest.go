// Package manifest records decoded levels and their placement events in SQLite,
// so tools can inspect and diff object layouts without re-reading rasters.
package manifest

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/internal/logger"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// ErrNotFound is returned when a level has no manifest entry.
var ErrNotFound = errors.New("manifest: level not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// LevelInfo is the summary row of a recorded level.
type LevelInfo struct {
	Name       string
	HeightMap  string
	ObjectMap  string
	Size       int // height raster edge length
	ObjectSize int // object raster edge length, 0 for height-only levels
	Placements int // number of spawn events
	CreatedAt  time.Time
}

// Open creates or opens a manifest database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("manifest: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("manifest: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("manifest: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("manifest: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS levels (
			name TEXT PRIMARY KEY,
			height_map TEXT NOT NULL,
			object_map TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL,
			object_size INTEGER NOT NULL DEFAULT 0,
			placements INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS events (
			level TEXT NOT NULL REFERENCES levels(name) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			event TEXT NOT NULL,
			instance_id TEXT NOT NULL,
			type_id INTEGER NOT NULL,
			model TEXT NOT NULL,
			pixel INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			rotation REAL NOT NULL,
			scale REAL NOT NULL,
			collidable INTEGER NOT NULL,
			moveable INTEGER NOT NULL,
			kind TEXT NOT NULL,
			physics TEXT NOT NULL,
			PRIMARY KEY (level, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_events_model ON events(level, model);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveLevel replaces the manifest of info.Name with the given events.
func (s *Store) SaveLevel(info LevelInfo, events []placement.Event) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("manifest: cannot begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM events WHERE level = ?", info.Name); err != nil {
		return fmt.Errorf("manifest: cannot clear events: %w", err)
	}
	if _, err = tx.Exec("DELETE FROM levels WHERE name = ?", info.Name); err != nil {
		return fmt.Errorf("manifest: cannot clear level: %w", err)
	}

	spawns := 0
	for _, e := range events {
		if e.Type == placement.EventSpawn {
			spawns++
		}
	}
	if _, err = tx.Exec(
		`INSERT INTO levels (name, height_map, object_map, size, object_size, placements)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		info.Name, info.HeightMap, info.ObjectMap, info.Size, info.ObjectSize, spawns,
	); err != nil {
		return fmt.Errorf("manifest: cannot save level: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO events (level, seq, event, instance_id, type_id, model, pixel,
		  x, y, z, rotation, scale, collidable, moveable, kind, physics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("manifest: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		r := placement.NewRecord(e)
		if _, err = stmt.Exec(
			info.Name, i, r.Event.String(), r.InstanceID, r.TypeID, r.Model, r.Pixel,
			r.Position.X, r.Position.Y, r.Position.Z, r.Rotation, r.Scale,
			r.Collidable, r.Moveable, r.Kind.String(), r.Physics.String(),
		); err != nil {
			return fmt.Errorf("manifest: cannot save event %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("manifest: cannot commit: %w", err)
	}

	logger.Named("manifest").Debug("level saved",
		zap.String("level", info.Name),
		zap.Int("events", len(events)),
	)
	return nil
}

// Levels lists recorded levels by name.
func (s *Store) Levels() ([]LevelInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, height_map, object_map, size, object_size, placements, created_at
		 FROM levels ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("manifest: cannot query levels: %w", err)
	}
	defer rows.Close()

	var levels []LevelInfo
	for rows.Next() {
		info, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("manifest: row iteration error: %w", err)
	}
	return levels, nil
}

// Level returns a recorded level and its events in decode order.
func (s *Store) Level(name string) (LevelInfo, []placement.Record, error) {
	row := s.db.QueryRow(
		`SELECT name, height_map, object_map, size, object_size, placements, created_at
		 FROM levels WHERE name = ?`, name,
	)
	info, err := scanLevel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return LevelInfo{}, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return LevelInfo{}, nil, err
	}

	rows, err := s.db.Query(
		`SELECT event, instance_id, type_id, model, pixel, x, y, z, rotation, scale,
		  collidable, moveable, kind, physics
		 FROM events WHERE level = ? ORDER BY seq`, name,
	)
	if err != nil {
		return LevelInfo{}, nil, fmt.Errorf("manifest: cannot query events: %w", err)
	}
	defer rows.Close()

	var records []placement.Record
	for rows.Next() {
		var r placement.Record
		var event, kind, physics string
		var pos math.Vec3
		if err := rows.Scan(&event, &r.InstanceID, &r.TypeID, &r.Model, &r.Pixel,
			&pos.X, &pos.Y, &pos.Z, &r.Rotation, &r.Scale,
			&r.Collidable, &r.Moveable, &kind, &physics); err != nil {
			return LevelInfo{}, nil, fmt.Errorf("manifest: cannot scan event: %w", err)
		}
		r.Position = pos
		if err := r.Event.UnmarshalText([]byte(event)); err != nil {
			return LevelInfo{}, nil, fmt.Errorf("manifest: %w", err)
		}
		if err := r.Kind.UnmarshalText([]byte(kind)); err != nil {
			return LevelInfo{}, nil, fmt.Errorf("manifest: %w", err)
		}
		if err := r.Physics.UnmarshalText([]byte(physics)); err != nil {
			return LevelInfo{}, nil, fmt.Errorf("manifest: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return LevelInfo{}, nil, fmt.Errorf("manifest: row iteration error: %w", err)
	}

	return info, records, nil
}

// DeleteLevel removes a level and its events.
func (s *Store) DeleteLevel(name string) error {
	if _, err := s.db.Exec("DELETE FROM events WHERE level = ?", name); err != nil {
		return fmt.Errorf("manifest: cannot delete events: %w", err)
	}
	res, err := s.db.Exec("DELETE FROM levels WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("manifest: cannot delete level: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLevel(row scanner) (LevelInfo, error) {
	var info LevelInfo
	var createdAt any
	if err := row.Scan(&info.Name, &info.HeightMap, &info.ObjectMap, &info.Size,
		&info.ObjectSize, &info.Placements, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return info, err
		}
		return info, fmt.Errorf("manifest: cannot scan level: %w", err)
	}

	// Parse the datetime - handle both time.Time and string
	switch v := createdAt.(type) {
	case time.Time:
		info.CreatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			info.CreatedAt = parsed
		}
	}
	return info, nil
}
