// Package logger holds the process-wide zap logger.
//
// Until Init or Setup runs, Log discards everything, so packages and tests can
// log without any setup.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger.
	Log = zap.NewNop()
	// Sugar is Log's sugared form for printf-style debug output.
	Sugar = Log.Sugar()
)

// FileConfig controls the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig rotates at 20 MB and keeps three compressed backups for a week.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{Path: path, MaxSizeMB: 20, MaxBackups: 3, MaxAgeDays: 7, Compress: true}
}

// Options selects the sinks Setup installs.
type Options struct {
	Level   string
	Console bool // coloured console output on stdout
	JSON    bool // JSON instead of console encoding for the file sink
	File    FileConfig
}

// Init logs to stdout and, when logFile is set, to a rotating file.
func Init(level, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Setup(opts)
}

// InitWithFileConfig is Setup for callers that only choose the file sink.
// Tests pass consoleOutput=false to keep stdout clean.
func InitWithFileConfig(level string, file FileConfig, consoleOutput bool) error {
	return Setup(Options{Level: level, Console: consoleOutput, File: file})
}

// Setup replaces Log and Sugar.
func Setup(opts Options) error {
	lvl, err := zapcore.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zapcore.InfoLevel
	}

	var cores []zapcore.Core
	if opts.Console {
		enc := zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder))
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl))
	}
	if opts.File.Path != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		})
		cfg := encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		enc := zapcore.NewConsoleEncoder(cfg)
		if opts.JSON {
			enc = zapcore.NewJSONEncoder(cfg)
		}
		cores = append(cores, zapcore.NewCore(enc, sink, lvl))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = timeEnc
	cfg.EncodeLevel = levelEnc
	cfg.ConsoleSeparator = " "
	return cfg
}

// Named returns a child logger for one subsystem, e.g. "terrain" or "placement".
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

// Debug logs on the global logger.
func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }

// Info logs on the global logger.
func Info(msg string, fields ...zap.Field) { Log.Info(msg, fields...) }

// Warn logs on the global logger.
func Warn(msg string, fields ...zap.Field) { Log.Warn(msg, fields...) }

// Error logs on the global logger.
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
