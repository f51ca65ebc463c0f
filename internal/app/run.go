package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ProcessExitError reports a poured binary that ran but exited non-zero, so
// the CLI can propagate its exit code.
type ProcessExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ProcessExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}

// BuildAndRun builds the workspace and executes the resulting binary with
// the given arguments, inheriting standard streams.
func (a *App) BuildAndRun(ctx context.Context, args []string) error {
	result, err := a.Build(ctx)
	if err != nil {
		return err
	}
	if result.Binary == "" {
		return errors.New("cannot pour a library leaf, only binaries run")
	}

	a.logger.Debug("Running built binary.", "path", result.Binary, "args", args)
	cmd := exec.CommandContext(ctx, result.Binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", result.Binary, err)
	}
	return nil
}
