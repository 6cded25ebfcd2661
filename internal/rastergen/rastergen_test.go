package rastergen

import (
	"errors"
	"slices"
	"testing"

	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/raster"
)

func pixels(r *raster.Raster) []byte {
	return r.Image().Pix
}

func TestHeightmapDeterministic(t *testing.T) {
	a, err := New(7).Heightmap(64)
	if err != nil {
		t.Fatalf("Heightmap: %v", err)
	}
	b, _ := New(7).Heightmap(64)
	c, _ := New(8).Heightmap(64)

	if !slices.Equal(pixels(a), pixels(b)) {
		t.Error("same seed produced different heightmaps")
	}
	if slices.Equal(pixels(a), pixels(c)) {
		t.Error("different seeds produced identical heightmaps")
	}
}

func TestHeightmapHasRelief(t *testing.T) {
	r, err := New(3).Heightmap(128)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := byte(255), byte(0)
	for i := 0; i < r.Len(); i++ {
		lo, hi = min(lo, r.Red(i)), max(hi, r.Red(i))
	}
	if hi-lo < 20 {
		t.Errorf("heightmap too flat: range %d..%d", lo, hi)
	}

	// Builds into a terrain without error.
	if _, err := terrain.Build(r, terrain.DefaultOptions()); err != nil {
		t.Errorf("Build: %v", err)
	}
}

func TestObjectMapUsesTableTypes(t *testing.T) {
	table := placement.DefaultTable()
	r, err := New(11).ObjectMap(128, table, 0.3)
	if err != nil {
		t.Fatal(err)
	}

	placed := 0
	for i := 0; i < r.Len(); i++ {
		red := r.Red(i)
		if red == 0 {
			continue
		}
		if _, ok := table.Lookup(red); !ok {
			t.Fatalf("pixel %d has unmapped type %d", i, red)
		}
		placed++
	}
	if placed == 0 {
		t.Error("no objects placed")
	}
	if placed == r.Len() {
		t.Error("every pixel holds an object")
	}
}

func TestObjectMapZeroDensity(t *testing.T) {
	r, err := New(11).ObjectMap(32, placement.DefaultTable(), 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < r.Len(); i++ {
		if r.Red(i) != 0 {
			t.Fatalf("pixel %d has type %d at zero density", i, r.Red(i))
		}
	}
}

func TestInvalidSize(t *testing.T) {
	g := New(1)
	if _, err := g.Heightmap(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Heightmap(0): expected ErrInvalidSize, got %v", err)
	}
	if _, err := g.ObjectMap(-1, placement.DefaultTable(), 0.5); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("ObjectMap(-1): expected ErrInvalidSize, got %v", err)
	}
}
