// Package config handles viewer and tool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rally-terrain/internal/engine/lighting"
	"github.com/Faultbox/rally-terrain/internal/engine/terrain"
	"github.com/Faultbox/rally-terrain/internal/game/placement"
	"github.com/Faultbox/rally-terrain/pkg/math"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Level    LevelConfig    `yaml:"level"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Objects  ObjectsConfig  `yaml:"objects"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Camera   CameraConfig   `yaml:"camera"`
	Manifest ManifestConfig `yaml:"manifest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Samples    int  `yaml:"samples"`
}

// LevelConfig names the rasters that make up a level.
type LevelConfig struct {
	Name      string `yaml:"name"`
	HeightMap string `yaml:"height_map"`
	ObjectMap string `yaml:"object_map"` // empty for a height-only level
	// Simple selects the height-only convention (heights scaled by 0.02, no Y offset).
	Simple       bool   `yaml:"simple"`
	GrassTexture string `yaml:"grass_texture"`
}

// TerrainConfig holds the heightfield transform settings.
type TerrainConfig struct {
	MapDimension  float32 `yaml:"map_dimension"`
	HeightScale   float32 `yaml:"height_scale"`
	VerticalScale float32 `yaml:"vertical_scale"`
	YOffset       float32 `yaml:"y_offset"`
	// NormalMap lights the terrain from the exported normal texture.
	NormalMap bool `yaml:"normal_map"`
}

// Options converts the settings into terrain build options.
func (c TerrainConfig) Options() terrain.Options {
	return terrain.Options{
		MapDimension:  c.MapDimension,
		HeightScale:   c.HeightScale,
		VerticalScale: c.VerticalScale,
		YOffset:       c.YOffset,
	}
}

// ObjectsConfig holds object placement settings.
type ObjectsConfig struct {
	MarginOffset int `yaml:"margin_offset"`
	// Types replaces the built-in type table when non-empty.
	Types []placement.Descriptor `yaml:"types"`
}

// Table builds the object type table.
func (c ObjectsConfig) Table() (*placement.Table, error) {
	if len(c.Types) == 0 {
		return placement.DefaultTable(), nil
	}
	return placement.NewTable(c.Types...)
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Enabled bool `yaml:"enabled"`
	MapSize int  `yaml:"map_size"`
	// LightDirection points from the sun towards the ground.
	LightDirection [3]float32 `yaml:"light_direction"`
	// Sun, when set, replaces LightDirection with angles in degrees.
	Sun *SunAngles `yaml:"sun,omitempty"`
}

// SunAngles places the sun by longitude (around +Y) and elevation.
type SunAngles struct {
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
}

// Direction returns the light direction, from the sun towards the ground.
func (c ShadowConfig) Direction() math.Vec3 {
	if c.Sun != nil {
		return lighting.SunDirection(c.Sun.Longitude, c.Sun.Latitude)
	}
	d := c.LightDirection
	return math.Vec3{X: d[0], Y: d[1], Z: d[2]}
}

// CameraConfig holds the orbit camera settings.
type CameraConfig struct {
	FOV       float32 `yaml:"fov"` // degrees
	Distance  float32 `yaml:"distance"`
	Clearance float32 `yaml:"clearance"` // minimum height above ground
}

// ManifestConfig locates the SQLite placement manifest.
type ManifestConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"` // JSON lines in log_file
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			VSync:   true,
			Samples: 4,
		},
		Level: LevelConfig{
			Name:      "default",
			HeightMap: "data/heightmap.png",
			ObjectMap: "data/objectmap.png",
		},
		Terrain: TerrainConfig{
			MapDimension:  terrain.DefaultMapDimension,
			HeightScale:   1,
			VerticalScale: 1,
			YOffset:       1,
		},
		Objects: ObjectsConfig{
			MarginOffset: placement.DefaultMarginOffset,
		},
		Shadow: ShadowConfig{
			Enabled:        true,
			MapSize:        2048,
			LightDirection: [3]float32{-0.5, -1, -0.3},
		},
		Camera: CameraConfig{
			FOV:       45,
			Distance:  600,
			Clearance: 5,
		},
		Manifest: ManifestConfig{
			Path: "~/.rally-terrain/manifest.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// TerrainOptions returns the build options for the configured level. Simple
// levels use the height-only convention regardless of the terrain section.
func (c *Config) TerrainOptions() terrain.Options {
	if c.Level.Simple {
		opts := terrain.SimpleOptions()
		opts.MapDimension = c.Terrain.MapDimension
		return opts
	}
	return c.Terrain.Options()
}

// Validate rejects settings that cannot produce a terrain.
func (c *Config) Validate() error {
	switch {
	case c.Terrain.MapDimension <= 0:
		return fmt.Errorf("%w: terrain.map_dimension must be positive, got %v", ErrInvalid, c.Terrain.MapDimension)
	case c.Terrain.HeightScale <= 0:
		return fmt.Errorf("%w: terrain.height_scale must be positive, got %v", ErrInvalid, c.Terrain.HeightScale)
	case c.Terrain.VerticalScale <= 0:
		return fmt.Errorf("%w: terrain.vertical_scale must be positive, got %v", ErrInvalid, c.Terrain.VerticalScale)
	case c.Objects.MarginOffset < 0:
		return fmt.Errorf("%w: objects.margin_offset must not be negative, got %d", ErrInvalid, c.Objects.MarginOffset)
	case c.Shadow.Enabled && c.Shadow.MapSize <= 0:
		return fmt.Errorf("%w: shadow.map_size must be positive, got %d", ErrInvalid, c.Shadow.MapSize)
	case c.Shadow.Direction().Length() == 0:
		return fmt.Errorf("%w: shadow.light_direction must not be zero", ErrInvalid)
	case c.Level.HeightMap == "":
		return fmt.Errorf("%w: level.height_map is required", ErrInvalid)
	}
	if _, err := c.Objects.Table(); err != nil {
		return fmt.Errorf("%w: objects.types: %w", ErrInvalid, err)
	}
	return nil
}
