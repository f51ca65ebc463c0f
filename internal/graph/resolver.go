package graph

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/vk/tea/internal/ctxlog"
	"github.com/vk/tea/internal/feature"
	"github.com/vk/tea/internal/manifest"
)

// resolver carries the state of one graph resolution. It is single-use and
// single-threaded; the resulting Plan is read-only afterwards.
type resolver struct {
	platform feature.Platform

	leaves []*Leaf
	// manifests memoizes loads by directory: a leaf reached by several edges
	// is read from disk once.
	manifests map[string]*manifest.Manifest
	// built maps (path, canonical feature set) to an arena index, so two
	// edges reaching the same configuration share one leaf.
	built map[string]int
	// names maps package names to leaf roots for duplicate detection.
	names map[string]string
	// visiting is the set of leaf paths on the active recursion path, used
	// for cycle detection. stack mirrors it in order for error reporting.
	visiting map[string]bool
	stack    []string
}

// Resolve loads the manifest at rootDir and every transitively referenced
// leaf, resolves each leaf's features, and returns a topologically ordered
// plan with dependencies strictly before dependents. Ties between independent
// leaves fall in first-discovery order, so an unchanged workspace always
// produces the same plan.
func Resolve(ctx context.Context, rootDir string, requested []string, platform feature.Platform) (*Plan, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	r := &resolver{
		platform:  platform,
		manifests: make(map[string]*manifest.Manifest),
		built:     make(map[string]int),
		names:     make(map[string]string),
		visiting:  make(map[string]bool),
	}
	if _, err := r.visit(ctx, abs, requested); err != nil {
		return nil, err
	}
	return &Plan{Leaves: r.leaves}, nil
}

// visit loads one leaf, recursing into its dependencies first. Appending each
// leaf to the arena after its dependencies yields the topological order
// directly.
func (r *resolver) visit(ctx context.Context, dir string, requested []string) (int, error) {
	logger := ctxlog.FromContext(ctx)

	if r.visiting[dir] {
		return 0, &CycleError{Cycle: append(cycleSuffix(r.stack, dir), dir)}
	}

	m, ok := r.manifests[dir]
	if !ok {
		var err error
		m, err = manifest.Load(dir)
		if err != nil {
			return 0, err
		}
		r.manifests[dir] = m
	}

	feats, err := feature.Resolve(m, requested, r.platform)
	if err != nil {
		return 0, err
	}

	key := dir + "?" + feats.Canonical()
	if idx, ok := r.built[key]; ok {
		logger.Debug("Leaf configuration already resolved, sharing.", "leaf", m.Package.Name, "features", feats.Canonical())
		return idx, nil
	}

	if prev, ok := r.names[m.Package.Name]; ok && prev != dir {
		return 0, &DuplicateNameError{Name: m.Package.Name, PathA: prev, PathB: dir}
	}
	r.names[m.Package.Name] = dir

	r.visiting[dir] = true
	r.stack = append(r.stack, dir)
	defer func() {
		delete(r.visiting, dir)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	leaf := &Leaf{Manifest: m, Root: dir, Features: feats}
	for _, name := range m.DependencyOrder {
		decl := m.Dependencies[name]
		depDir := filepath.Join(dir, decl.Path)

		depIdx, err := r.visit(ctx, depDir, decl.Features)
		if err != nil {
			var merr *manifest.Error
			if errors.As(err, &merr) && merr.Kind == manifest.ErrNotFound {
				return 0, &NotFoundError{Name: name, Path: depDir}
			}
			return 0, err
		}
		if r.leaves[depIdx].IsBinary() {
			return 0, &NotLibraryError{Name: name, Path: depDir}
		}
		leaf.Deps = append(leaf.Deps, depIdx)
	}

	logger.Debug("Leaf resolved.", "leaf", m.Package.Name, "features", feats.Canonical(), "deps", len(leaf.Deps))

	r.leaves = append(r.leaves, leaf)
	idx := len(r.leaves) - 1
	r.built[key] = idx
	return idx, nil
}

// cycleSuffix trims the recursion stack to the segment starting at the
// repeated directory, so the reported cycle names only the leaves on it.
func cycleSuffix(stack []string, repeat string) []string {
	for i, dir := range stack {
		if dir == repeat {
			return append([]string(nil), stack[i:]...)
		}
	}
	return append([]string(nil), stack...)
}
