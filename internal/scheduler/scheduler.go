// Package scheduler executes a resolved build plan: it decides which
// translation units are stale, compiles them across a bounded worker pool,
// and archives or links each leaf once its dependencies have artifacts.
//
// Leaves run as soon as their last dependency finishes, admitted through a
// ready channel; remaining-dependency counters are atomics and a failed leaf
// marks its dependents skipped exactly once. Compilation concurrency is
// bounded globally, across leaves, by one admission semaphore.
package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vk/tea/internal/backend"
	"github.com/vk/tea/internal/ctxlog"
	"github.com/vk/tea/internal/graph"
	"github.com/vk/tea/internal/source"
	"github.com/vk/tea/internal/state"
)

// Event classifies progress callbacks.
type Event int

const (
	// EventCompile fires after each unit compiles; done/total count the
	// leaf's stale units.
	EventCompile Event = iota
	// EventArchive fires before a library leaf is archived.
	EventArchive
	// EventLink fires before a binary leaf is linked.
	EventLink
	// EventFresh fires for a leaf whose units and artifact are all up to
	// date.
	EventFresh
)

// Progress receives build progress callbacks. It may be called from several
// goroutines at once.
type Progress func(leaf *graph.Leaf, event Event, done, total int)

// Options configures a Scheduler.
type Options struct {
	// TargetDir is the profile-specific output directory, e.g. target/debug.
	TargetDir string
	// Jobs bounds concurrent backend invocations. Zero means the number of
	// available CPUs.
	Jobs int
	// CFlags and LDFlags come from the active toolchain profile.
	CFlags  []string
	LDFlags []string

	Backend  backend.Toolchain
	Store    *state.Store
	Scanner  *source.Scanner
	Progress Progress
}

// Result summarizes a finished (possibly partially failed) build.
type Result struct {
	// Compiled and Reused count translation units across all leaves.
	Compiled int
	Reused   int
	// Artifacts maps leaf IDs to their built artifact paths.
	Artifacts map[string]string
	// Binary is the root executable, empty for library roots or failed
	// builds.
	Binary string
}

// Scheduler executes one build plan. It is single-use.
type Scheduler struct {
	plan *graph.Plan
	opts Options

	sem      chan struct{}
	wg       sync.WaitGroup
	compiled atomic.Int64
	reused   atomic.Int64
}

// New returns a Scheduler for the plan.
func New(plan *graph.Plan, opts Options) *Scheduler {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.Scanner == nil {
		opts.Scanner = source.NewScanner()
	}
	return &Scheduler{
		plan: plan,
		opts: opts,
		sem:  make(chan struct{}, opts.Jobs),
	}
}

// leafRun is the mutable per-leaf execution state. The plan itself stays
// read-only during scheduling.
type leafRun struct {
	idx  int
	leaf *graph.Leaf
	// remaining counts unbuilt direct dependencies; the leaf is ready at
	// zero.
	remaining  atomic.Int32
	dependents []int
	// skipOnce guards the skip path so a leaf reachable from two failed
	// branches is accounted exactly once.
	skipOnce sync.Once
	failed   atomic.Bool
	err      error
	artifact string
	// regenerated is set when the leaf's artifact was rewritten this run,
	// so dependent binaries know to relink. Written before the leaf's
	// dependents are unlocked.
	regenerated bool
}

// Run executes the plan and blocks until every leaf has finished, failed, or
// been skipped. Structural errors never reach Run: the plan is already fully
// resolved. A compile failure lets unaffected branches drain before Run
// returns the aggregated error.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	runs := make([]*leafRun, len(s.plan.Leaves))
	for i, leaf := range s.plan.Leaves {
		runs[i] = &leafRun{idx: i, leaf: leaf}
		runs[i].remaining.Store(int32(len(leaf.Deps)))
	}
	for i, leaf := range s.plan.Leaves {
		for _, dep := range leaf.Deps {
			runs[dep].dependents = append(runs[dep].dependents, i)
		}
	}

	ready := make(chan *leafRun, len(runs))
	rootLeaves := 0
	for _, lr := range runs {
		if lr.remaining.Load() == 0 {
			ready <- lr
			rootLeaves++
		}
	}
	logger.Debug("Scheduler starting.", "leaves", len(runs), "initially_ready", rootLeaves, "jobs", s.opts.Jobs)

	s.wg.Add(len(runs))
	go func() {
		for lr := range ready {
			go s.runLeaf(ctx, lr, runs, ready)
		}
	}()

	s.wg.Wait()
	close(ready)
	logger.Debug("Scheduler drained.", "compiled", s.compiled.Load(), "reused", s.reused.Load())

	result := &Result{
		Compiled:  int(s.compiled.Load()),
		Reused:    int(s.reused.Load()),
		Artifacts: make(map[string]string),
	}
	for _, lr := range runs {
		if lr.artifact != "" {
			result.Artifacts[lr.leaf.ID()] = lr.artifact
		}
	}

	if err := s.collectFailure(runs); err != nil {
		return result, err
	}

	root := runs[s.plan.RootIndex()]
	if root.leaf.IsBinary() {
		result.Binary = root.artifact
	}
	return result, nil
}

// runLeaf builds one leaf whose dependencies are all satisfied, then unlocks
// any dependents that became ready.
func (s *Scheduler) runLeaf(ctx context.Context, lr *leafRun, runs []*leafRun, ready chan<- *leafRun) {
	defer s.wg.Done()
	logger := ctxlog.FromContext(ctx).With("leaf", lr.leaf.Name())

	if ctx.Err() != nil {
		lr.err = ctx.Err()
		lr.failed.Store(true)
		s.skipDependents(ctx, lr, runs)
		return
	}

	logger.Debug("Leaf ready, building.", "features", lr.leaf.Features.Canonical())
	if err := s.buildLeaf(ctx, lr, runs); err != nil {
		logger.Error("Leaf failed.", "error", err)
		lr.err = err
		lr.failed.Store(true)
		s.skipDependents(ctx, lr, runs)
		return
	}
	logger.Debug("Leaf built.", "artifact", lr.artifact)

	for _, depIdx := range lr.dependents {
		if runs[depIdx].remaining.Add(-1) == 0 {
			ready <- runs[depIdx]
		}
	}
}

// skipDependents marks every downstream leaf failed without scheduling it.
// Leaves on unrelated branches are untouched and keep building.
func (s *Scheduler) skipDependents(ctx context.Context, lr *leafRun, runs []*leafRun) {
	logger := ctxlog.FromContext(ctx)
	for _, depIdx := range lr.dependents {
		dependent := runs[depIdx]
		dependent.skipOnce.Do(func() {
			logger.Warn("Skipping leaf, dependency failed.", "leaf", dependent.leaf.Name(), "dependency", lr.leaf.Name())
			dependent.err = &skipError{dependency: lr.leaf.Name()}
			dependent.failed.Store(true)
			s.wg.Done()
			s.skipDependents(ctx, dependent, runs)
		})
	}
}

// collectFailure turns the per-leaf outcomes into one error: compile
// diagnostics aggregate across leaves, link errors surface next, and skip
// markers are symptoms that never outrank a root cause.
func (s *Scheduler) collectFailure(runs []*leafRun) error {
	var diags []CompileDiagnostic
	dropped := 0
	var linkErr *LinkError
	var otherErr error

	for _, lr := range runs {
		if !lr.failed.Load() {
			continue
		}
		switch err := lr.err.(type) {
		case *BuildError:
			for _, d := range err.Diagnostics {
				if len(diags) < MaxDiagnostics {
					diags = append(diags, d)
				} else {
					dropped++
				}
			}
			dropped += err.Dropped
		case *LinkError:
			if linkErr == nil {
				linkErr = err
			}
		case *skipError:
			// Symptom of an upstream failure already reported.
		default:
			if otherErr == nil {
				otherErr = lr.err
			}
		}
	}

	switch {
	case len(diags) > 0 || dropped > 0:
		return &BuildError{Diagnostics: diags, Dropped: dropped}
	case linkErr != nil:
		return linkErr
	default:
		return otherErr
	}
}

// skipError marks a leaf that was never built because a dependency failed.
type skipError struct {
	dependency string
}

// Error implements the error interface.
func (e *skipError) Error() string {
	return "not built: dependency " + e.dependency + " failed"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// leafDir returns the build directory of the leaf at idx. The root leaf
// builds into the target directory itself; dependencies build into
// per-configuration subdirectories so two feature configurations of one leaf
// never collide.
func (s *Scheduler) leafDir(idx int) string {
	if idx == s.plan.RootIndex() {
		return s.opts.TargetDir
	}
	return filepath.Join(s.opts.TargetDir, "deps", s.plan.Leaves[idx].ID())
}

func (s *Scheduler) objectDir(idx int) string {
	return filepath.Join(s.leafDir(idx), "objects")
}

// artifactPath returns where the leaf's archive or executable lives.
func (s *Scheduler) artifactPath(idx int) string {
	leaf := s.plan.Leaves[idx]
	if leaf.IsBinary() {
		return filepath.Join(s.leafDir(idx), leaf.Name())
	}
	return filepath.Join(s.leafDir(idx), "lib"+leaf.Name()+".a")
}

// includeDirs returns the header search roots for compiling the leaf at idx:
// its own src/ and include/, then the include/ root of every transitive
// dependency in plan order.
func (s *Scheduler) includeDirs(idx int) []string {
	leaf := s.plan.Leaves[idx]
	dirs := []string{filepath.Join(leaf.Root, "src"), filepath.Join(leaf.Root, "include")}
	for _, depIdx := range s.plan.TransitiveDeps(idx) {
		dirs = append(dirs, filepath.Join(s.plan.Leaves[depIdx].Root, "include"))
	}
	return dirs
}

func (s *Scheduler) progress(leaf *graph.Leaf, event Event, done, total int) {
	if s.opts.Progress != nil {
		s.opts.Progress(leaf, event, done, total)
	}
}
