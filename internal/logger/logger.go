// Package logger wires the daemon's log output: a lumberjack-backed
// writer for the player log plus slog setup on top of it.
package logger

import (
	"io"
	"log/slog"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Size-based rotation guards against a runaway daemon; the line-based
// trim in rotate.go handles the ordinary growth of the append-only log.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 1
	DefaultMaxAgeDays = 7
)

// Config describes the player log destination.
type Config struct {
	Path       string `json:"path" mapstructure:"path"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

// Writer returns an append-only WriteCloser for the player log. The
// supervisor hands it to the spawned process as stdout/stderr; the
// daemon runtime routes slog through it as well.
func (c Config) Writer() io.WriteCloser {
	return &lj.Logger{
		Filename:   c.Path,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

// Setup installs a text slog handler writing to w as the process-wide
// default logger.
func Setup(w io.Writer, level slog.Level) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
