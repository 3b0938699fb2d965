// Package logging configures the process-wide logrus logger. The TUI owns
// stdout, so records go to a rotating file instead.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared logger. It discards output until Init is called.
var Log = newDiscard()

// Config selects the log file and rotation policy.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
	// Stderr mirrors records to stderr; used by headless commands.
	Stderr bool
}

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init points Log at a lumberjack-rotated file and returns it.
func Init(cfg Config) (*logrus.Logger, error) {
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return nil, err
		}
	}

	var writers []io.Writer
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     28, // days
			Compress:   cfg.Compress,
		})
	}
	if cfg.Stderr {
		writers = append(writers, os.Stderr)
	}

	out := io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}

	Log.SetOutput(out)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: !cfg.Stderr})
	Log.SetLevel(ParseLevel(cfg.Level))
	return Log, nil
}

// ParseLevel maps a config string to a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return logrus.WarnLevel
	case "":
		return logrus.InfoLevel
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
