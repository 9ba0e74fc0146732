// Package logging builds the process logger from config.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/SmitUplenchwar2687/Stash/internal/config"
)

// New returns a logger configured by cfg. When cfg.File is set, output goes
// to a size-rotated file instead of stderr.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(output(cfg))

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return logger, nil
}

// Install configures the package-level logrus logger, which backends log
// through, to match cfg.
func Install(cfg config.LogConfig) (*logrus.Logger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	std := logrus.StandardLogger()
	std.SetLevel(logger.GetLevel())
	std.SetFormatter(logger.Formatter)
	std.SetOutput(logger.Out)
	return logger, nil
}

func output(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}
