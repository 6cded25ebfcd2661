package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagHeightMap  = flag.String("heightmap", "", "Height map raster (PNG or TGA)")
	flagObjectMap  = flag.String("objectmap", "", "Object map raster (PNG or TGA)")
	flagSimple     = flag.Bool("simple", false, "Treat the level as height-only")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable the shadow pass")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagHeightMap != "" {
		cfg.Level.HeightMap = *flagHeightMap
	}
	if *flagObjectMap != "" {
		cfg.Level.ObjectMap = *flagObjectMap
	}
	if *flagSimple {
		cfg.Level.Simple = true
		cfg.Level.ObjectMap = ""
	}
	if *flagNoShadows {
		cfg.Shadow.Enabled = false
	}
}
