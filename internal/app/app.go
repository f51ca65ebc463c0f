// Package app wires one tea invocation together: manifest loading, graph
// resolution, source selection, scheduling, and artifact production.
package app

import (
	"io"
	"log/slog"
)

// Config holds everything an App needs for one invocation.
type Config struct {
	// Dir is the root leaf directory, usually ".".
	Dir string
	// Release selects the release profile and target/release outputs.
	Release bool
	// Jobs bounds concurrent backend invocations; zero means available
	// parallelism.
	Jobs int

	LogLevel  string
	LogFormat string
}

// App is one configured invocation. It owns its logger, so tests can run
// several Apps in isolation.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config Config
}

// New constructs an App. Progress output goes to outW; structured logs go to
// logW.
func New(outW, logW io.Writer, config Config) *App {
	if config.Dir == "" {
		config.Dir = "."
	}
	return &App{
		outW:   outW,
		logger: newLogger(config.LogLevel, config.LogFormat, logW),
		config: config,
	}
}

// newLogger creates an isolated slog.Logger instance; it never touches the
// global default.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
