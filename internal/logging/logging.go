// Package logging builds the daemon's structured logger: zap with a
// lumberjack-backed rotating file sink, console output mirrored alongside
// it during development. A single *zap.SugaredLogger is constructed once at
// startup and threaded through the scheduler, dispatcher, and window
// manager as a field.
package logging

import (
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls where and how log output is written.
type Config struct {
	// Level is the minimum level written ("debug", "info", "warn", "error").
	Level string
	// FilePath is the rotating log file path. Empty disables file output.
	FilePath string
	// MaxSizeMB is the size at which the file rotates.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// MaxAgeDays is the maximum age of a rotated file before deletion.
	MaxAgeDays int
	// Console mirrors output to stdout in addition to the file.
	Console bool
}

// DefaultConfig matches the daemon's built-in defaults before any
// config-file/env override is applied.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		FilePath:   "/var/log/compositord/compositord.log",
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 7,
		Console:    true,
	}
}

// New builds a *zap.SugaredLogger from cfg. The returned logger's Sync
// should be deferred by the caller.
func New(cfg Config) (*zap.SugaredLogger, error) {
	level := parseLevel(cfg.Level)
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	var cores []zapcore.Core
	if cfg.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}
	if cfg.Console || len(cores) == 0 {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), level))
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core, zap.AddCaller())
	return logger.Sugar(), nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

