package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "manifest.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEvents() []placement.Event {
	table := placement.DefaultTable()
	cone, _ := table.Lookup(placement.TypeCone)
	cp, _ := table.Lookup(placement.TypeCheckpoint)

	coneReq := placement.Request{
		InstanceID: uuid.NewSHA1(placement.Namespace, []byte("cone")),
		Pixel:      3,
		Position:   math.Vec3{X: -100.5, Y: 12.25, Z: 40},
		Rotation:   1.5,
		Descriptor: cone,
	}
	cpReq := placement.Request{
		InstanceID: uuid.NewSHA1(placement.Namespace, []byte("checkpoint")),
		Pixel:      9,
		Position:   math.Vec3{X: 8, Y: 1, Z: -8},
		Descriptor: cp,
	}
	return append(placement.EventsFor(coneReq), placement.EventsFor(cpReq)...)
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "manifest.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadLevel(t *testing.T) {
	store := openStore(t)
	events := sampleEvents()

	info := LevelInfo{Name: "quarry", HeightMap: "h.png", ObjectMap: "o.png", Size: 256, ObjectSize: 128}
	if err := store.SaveLevel(info, events); err != nil {
		t.Fatalf("SaveLevel() failed: %v", err)
	}

	got, records, err := store.Level("quarry")
	if err != nil {
		t.Fatalf("Level() failed: %v", err)
	}
	if got.Size != 256 || got.ObjectSize != 128 || got.ObjectMap != "o.png" {
		t.Errorf("unexpected level info %+v", got)
	}
	if got.Placements != 2 {
		t.Errorf("Placements = %d, want 2", got.Placements)
	}
	if len(records) != len(events) {
		t.Fatalf("got %d records, want %d", len(records), len(events))
	}
	for i, r := range records {
		want := placement.NewRecord(events[i])
		if r != want {
			t.Errorf("record %d = %+v, want %+v", i, r, want)
		}
	}
}

func TestSaveLevelReplaces(t *testing.T) {
	store := openStore(t)
	events := sampleEvents()
	info := LevelInfo{Name: "quarry", HeightMap: "h.png", Size: 64}

	if err := store.SaveLevel(info, events); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveLevel(info, events[:2]); err != nil {
		t.Fatal(err)
	}

	_, records, err := store.Level("quarry")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records after replace, want 2", len(records))
	}
}

func TestLevels(t *testing.T) {
	store := openStore(t)
	for _, name := range []string{"canyon", "alpine", "beach"} {
		if err := store.SaveLevel(LevelInfo{Name: name, HeightMap: name + ".png", Size: 32}, nil); err != nil {
			t.Fatal(err)
		}
	}

	levels, err := store.Levels()
	if err != nil {
		t.Fatalf("Levels() failed: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("got %d levels, want 3", len(levels))
	}
	if levels[0].Name != "alpine" || levels[2].Name != "canyon" {
		t.Errorf("levels not sorted by name: %v", levels)
	}
}

func TestLevelNotFound(t *testing.T) {
	store := openStore(t)
	if _, _, err := store.Level("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteLevel("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteLevel(t *testing.T) {
	store := openStore(t)
	if err := store.SaveLevel(LevelInfo{Name: "gone", HeightMap: "h.png", Size: 8}, sampleEvents()); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteLevel("gone"); err != nil {
		t.Fatalf("DeleteLevel() failed: %v", err)
	}
	if _, _, err := store.Level("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
