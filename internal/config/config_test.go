package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/rally-terrain/internal/game/placement"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Terrain defaults
	if cfg.Terrain.MapDimension != 2048 {
		t.Errorf("expected map dimension 2048, got %v", cfg.Terrain.MapDimension)
	}
	if cfg.Terrain.HeightScale != 1 || cfg.Terrain.VerticalScale != 1 || cfg.Terrain.YOffset != 1 {
		t.Errorf("unexpected terrain defaults %+v", cfg.Terrain)
	}
	if cfg.Objects.MarginOffset != 10 {
		t.Errorf("expected margin offset 10, got %d", cfg.Objects.MarginOffset)
	}
	if cfg.Shadow.MapSize != 2048 {
		t.Errorf("expected shadow map size 2048, got %d", cfg.Shadow.MapSize)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

level:
  name: "quarry"
  height_map: "maps/quarry_height.tga"
  object_map: "maps/quarry_objects.tga"

terrain:
  map_dimension: 1024
  vertical_scale: 0.5

objects:
  margin_offset: 4
  types:
    - id: 200
      model: "Barn"
      scale: 6
      collidable: true
      max_instances: 2
    - id: 201
      model: "goat"
      scale: 2
      max_instances: 10
      physics: sheep

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || !cfg.Window.Fullscreen {
		t.Errorf("unexpected window config %+v", cfg.Window)
	}
	if cfg.Level.Name != "quarry" || cfg.Level.ObjectMap != "maps/quarry_objects.tga" {
		t.Errorf("unexpected level config %+v", cfg.Level)
	}
	if cfg.Terrain.MapDimension != 1024 || cfg.Terrain.VerticalScale != 0.5 {
		t.Errorf("unexpected terrain config %+v", cfg.Terrain)
	}
	// Untouched fields keep their defaults.
	if cfg.Terrain.YOffset != 1 {
		t.Errorf("expected default y offset 1, got %v", cfg.Terrain.YOffset)
	}

	table, err := cfg.Objects.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 types, got %d", table.Len())
	}
	goat, ok := table.Lookup(201)
	if !ok || goat.Physics != placement.PhysicsSheep || goat.MaxInstances != 10 {
		t.Errorf("unexpected goat descriptor %+v", goat)
	}
	if _, ok := table.Lookup(placement.TypeCone); ok {
		t.Error("override should replace the built-in table")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/terrain.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileValidates(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("terrain:\n  map_dimension: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dimension", func(c *Config) { c.Terrain.MapDimension = 0 }},
		{"zero height scale", func(c *Config) { c.Terrain.HeightScale = 0 }},
		{"negative vertical scale", func(c *Config) { c.Terrain.VerticalScale = -1 }},
		{"negative margin", func(c *Config) { c.Objects.MarginOffset = -1 }},
		{"zero shadow size", func(c *Config) { c.Shadow.MapSize = 0 }},
		{"no height map", func(c *Config) { c.Level.HeightMap = "" }},
		{"zero light direction", func(c *Config) { c.Shadow.LightDirection = [3]float32{} }},
		{"bad type", func(c *Config) {
			c.Objects.Types = []placement.Descriptor{{ID: 1, Model: "x", Scale: 0}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	cfg := Default()
	cfg.Shadow.Enabled = false
	cfg.Shadow.MapSize = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled shadows should not need a map size: %v", err)
	}
}

func TestShadowDirection(t *testing.T) {
	cfg := Default()
	if got := cfg.Shadow.Direction(); got.X != -0.5 || got.Y != -1 || got.Z != -0.3 {
		t.Errorf("Direction = %v, want (-0.5,-1,-0.3)", got)
	}

	// Sun angles win over the vector.
	cfg.Shadow.Sun = &SunAngles{Longitude: 0, Latitude: 90}
	got := cfg.Shadow.Direction()
	if got.Y > -0.999 {
		t.Errorf("Direction with overhead sun = %v, want straight down", got)
	}
}

func TestTerrainOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.TerrainOptions()
	if opts.HeightScale != 1 || opts.YOffset != 1 || opts.MapDimension != 2048 {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg.Level.Simple = true
	cfg.Terrain.MapDimension = 512
	opts = cfg.TerrainOptions()
	if opts.HeightScale != 0.02 || opts.YOffset != 0 || opts.MapDimension != 512 {
		t.Errorf("unexpected simple options %+v", opts)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find terrain.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "simple level flag",
			setup: func() {
				*flagSimple = true
				*flagHeightMap = "hills.png"
			},
			verify: func(cfg *Config) {
				if !cfg.Level.Simple || cfg.Level.ObjectMap != "" {
					t.Errorf("expected height-only level, got %+v", cfg.Level)
				}
				if cfg.Level.HeightMap != "hills.png" {
					t.Errorf("expected height map hills.png, got %s", cfg.Level.HeightMap)
				}
			},
			teardown: func() {
				*flagSimple = false
				*flagHeightMap = ""
			},
		},
		{
			name:  "no shadows flag",
			setup: func() { *flagNoShadows = true },
			verify: func(cfg *Config) {
				if cfg.Shadow.Enabled {
					t.Error("expected shadows disabled")
				}
			},
			teardown: func() { *flagNoShadows = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Level.Name = "saved"
	cfg.Objects.Types = placement.DefaultDescriptors()[:2]
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Level.Name != "saved" {
		t.Errorf("expected level name 'saved', got %s", loaded.Level.Name)
	}
	if len(loaded.Objects.Types) != 2 || loaded.Objects.Types[0].Kind != placement.KindCone {
		t.Errorf("unexpected types after reload %+v", loaded.Objects.Types)
	}
}
