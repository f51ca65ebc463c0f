package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/tea/internal/backend"
	"github.com/vk/tea/internal/ctxlog"
	"github.com/vk/tea/internal/feature"
	"github.com/vk/tea/internal/graph"
	"github.com/vk/tea/internal/scheduler"
	"github.com/vk/tea/internal/source"
	"github.com/vk/tea/internal/state"
	"github.com/vk/tea/internal/toolchain"
)

// Build resolves the workspace and executes the build plan. Structural
// failures (manifest, feature, graph) abort before any compilation is
// scheduled; compile and link failures surface after unaffected branches
// drain.
func (a *App) Build(ctx context.Context) (*scheduler.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	platform := feature.HostPlatform()

	plan, err := graph.Resolve(ctx, a.config.Dir, nil, platform)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Dependency graph resolved.", "leaves", len(plan.Leaves))

	if err := a.selectSources(plan); err != nil {
		return nil, err
	}

	tc, err := toolchain.Load(a.config.Dir, platform)
	if err != nil {
		return nil, err
	}

	profile := "debug"
	if a.config.Release {
		profile = "release"
	}
	targetDir := filepath.Join(a.config.Dir, "target", profile)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", targetDir, err)
	}

	store := state.Load(targetDir)
	sched := scheduler.New(plan, scheduler.Options{
		TargetDir: targetDir,
		Jobs:      a.config.Jobs,
		CFlags:    tc.CFlags(profile),
		LDFlags:   tc.LDFlags(),
		Backend:   backend.NewCC(tc.CC(), tc.AR()),
		Store:     store,
		Scanner:   source.NewScanner(),
		Progress:  a.printProgress,
	})

	result, buildErr := sched.Run(ctx)

	// Successful siblings keep their cache even when the build fails.
	if err := store.Flush(); err != nil {
		a.logger.Warn("Failed to write build cache.", "error", err)
	}

	if buildErr != nil {
		return result, buildErr
	}
	a.printSummary(result)
	return result, nil
}

// selectSources populates every leaf's translation units according to its
// resolved features.
func (a *App) selectSources(plan *graph.Plan) error {
	for _, leaf := range plan.Leaves {
		srcDir := filepath.Join(leaf.Root, "src")
		if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
			return fmt.Errorf("leaf %s has no src directory at %s", leaf.Name(), srcDir)
		}

		warn := func(file, featureName string) {
			a.logger.Warn("Source file names an undeclared feature, excluded.",
				"leaf", leaf.Name(), "file", file, "feature", featureName)
		}
		units, err := source.Select(srcDir, leaf.Features, feature.Known(leaf.Manifest), warn)
		if err != nil {
			return fmt.Errorf("selecting sources of %s: %w", leaf.Name(), err)
		}
		leaf.Units = units
		a.logger.Debug("Sources selected.", "leaf", leaf.Name(), "units", len(units))
	}
	return nil
}
