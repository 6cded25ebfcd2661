// Package main is the entry point for the terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/rally-terrain/internal/config"
	"github.com/Faultbox/rally-terrain/internal/game"
	"github.com/Faultbox/rally-terrain/internal/game/level"
	"github.com/Faultbox/rally-terrain/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Console: true, JSON: cfg.Logging.JSON}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Setup(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Rally Terrain Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	lvl, err := level.Load(cfg)
	if err != nil {
		logger.Error("failed to load level", zap.Error(err))
		os.Exit(1)
	}

	g, err := game.New(cfg, lvl)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
