// terraintool inspects and generates rally terrain levels.
//
// Usage:
//
//	terraintool info                 - Print terrain and placement summary
//	terraintool objects              - List decoded placements
//	terraintool normalmap <out.png>  - Export the packed normal texture
//	terraintool gen <dir>            - Generate height and object rasters
//	terraintool manifest <cmd>       - Save, list, show or delete manifest entries
//	terraintool config show|init     - Print or write the configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ./terrain.yaml or OS config dir)
//	--heightmap <path>  - Override the height map
//	--objectmap <path>  - Override the object map
//	--simple            - Treat the level as height-only
//	--debug             - Enable debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/rally-terrain/internal/config"
	"github.com/Faultbox/rally-terrain/internal/game/level"
	"github.com/Faultbox/rally-terrain/internal/logger"
)

var (
	// Global flags
	flagConfig    string
	flagHeightMap string
	flagObjectMap string
	flagName      string
	flagSimple    bool
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "terraintool",
	Short: "Inspect and generate rally terrain levels",
	Long: `terraintool loads a level the same way the viewer does and reports on it.

Examples:
  terraintool info --heightmap data/heightmap.png --objectmap data/objectmap.png
  terraintool objects --json > placements.json
  terraintool normalmap normals.png
  terraintool gen data/generated --size 256 --seed 7
  terraintool manifest save`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := "warn"
		if flagDebug {
			logLevel = "debug"
		}
		return logger.Init(logLevel, "")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagHeightMap, "heightmap", "", "Height map raster (PNG or TGA)")
	rootCmd.PersistentFlags().StringVar(&flagObjectMap, "objectmap", "", "Object map raster (PNG or TGA)")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Level name")
	rootCmd.PersistentFlags().BoolVar(&flagSimple, "simple", false, "Treat the level as height-only")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(objectsCmd)
	rootCmd.AddCommand(normalmapCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagHeightMap != "" {
		cfg.Level.HeightMap = flagHeightMap
	}
	if flagObjectMap != "" {
		cfg.Level.ObjectMap = flagObjectMap
	}
	if flagName != "" {
		cfg.Level.Name = flagName
	}
	if flagSimple {
		cfg.Level.Simple = true
		cfg.Level.ObjectMap = ""
	}
	return cfg, cfg.Validate()
}

// loadLevel runs the load phase for the configured level.
func loadLevel() (*config.Config, *level.Level, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	lvl, err := level.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lvl, nil
}
