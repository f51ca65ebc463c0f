package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/vk/tea/internal/app"
	"github.com/vk/tea/internal/cli"
)

// main is the entrypoint for the tea build tool.
func main() {
	// Use a minimal logger until the app configures its own.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := cli.Execute(); err != nil {
		var procErr *app.ProcessExitError
		if errors.As(err, &procErr) {
			// A poured binary failed; its own output already explained why.
			os.Exit(procErr.Code)
		}
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
