// Package rlog builds the zap logger every gocko package takes as a
// constructor argument, following the console+file zapcore.Tee split
// the teacher's config.LoggingConfig.Prepare builds, simplified: gocko
// is a rendering library, not a document converter, so there is no
// panic-log capture or report-bundle wiring to carry over.
package rlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects how verbose the console core is. Unlike the teacher's
// LoggerConfig (which separately configures a file sink), gocko only
// ever writes to stdout/stderr: a render is a single function call
// embedders make, not a long-running daemon with rotated log files.
type Level string

const (
	LevelNone  Level = "none"
	LevelNorm  Level = "normal"
	LevelDebug Level = "debug"
)

// Options configures New. The zero value is LevelNone (silent), so a
// caller that forgets to set Level gets a nop logger rather than a
// noisy default.
type Options struct {
	Level Level
	Name  string
}

// New builds a zap.Logger the way the teacher splits low-priority
// output to stdout and errors-and-above to stderr, minus color
// detection and file sinks (no terminal-capability dependency is wired
// into gocko's go.mod, so output is always plain).
func New(opts Options) *zap.Logger {
	if opts.Level == "" || opts.Level == LevelNone {
		return zap.NewNop()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	minLevel := zapcore.InfoLevel
	if opts.Level == LevelDebug {
		minLevel = zapcore.DebugLevel
	}

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= minLevel && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lowPriority),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), highPriority),
	)

	logger := zap.New(core)
	if opts.Name != "" {
		logger = logger.Named(opts.Name)
	}
	return logger
}
