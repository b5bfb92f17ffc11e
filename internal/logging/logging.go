package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultLevel  = "info"
	DefaultFormat = "console"
)

// Config selects the log level and encoding.
type Config struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputFile string `yaml:"output_file"`
}

// ParseLevel maps a level name onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// New builds a zap logger. Overrides that are non-empty take precedence over cfg.
func New(cfg Config, levelOverride, formatOverride string) (*zap.Logger, error) {
	level := cfg.Level
	if levelOverride != "" {
		level = levelOverride
	}
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	format := cfg.Format
	if formatOverride != "" {
		format = formatOverride
	}
	if format == "" {
		format = DefaultFormat
	}

	var zcfg zap.Config
	switch format {
	case "console":
		zcfg = zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
	case "json":
		zcfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)

	// keep stdout free for tables and plots
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.OutputFile != "" {
		zcfg.OutputPaths = []string{cfg.OutputFile}
		zcfg.ErrorOutputPaths = []string{cfg.OutputFile}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
