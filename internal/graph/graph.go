// Package graph discovers and orders the leaves reachable from a root
// manifest.
//
// The resolved graph is stored as an arena of Leaf records addressed by
// index. Deduplication of shared dependencies and topological ordering are
// then plain slice operations instead of pointer surgery, and the arena is
// read-only once Resolve returns.
package graph

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/vk/tea/internal/feature"
	"github.com/vk/tea/internal/manifest"
	"github.com/vk/tea/internal/source"
)

// Leaf is one resolved node of the dependency graph: a manifest, its final
// feature set, and arena indices of its direct dependencies.
type Leaf struct {
	Manifest *manifest.Manifest
	// Root is the absolute path of the leaf directory.
	Root string
	// Features is the resolved, validated feature set.
	Features feature.Set
	// Deps holds arena indices of direct dependencies, in declaration order.
	Deps []int
	// Units are the translation units selected for this leaf. Populated by
	// the planner after graph resolution.
	Units []source.TranslationUnit
}

// Name returns the leaf's package name.
func (l *Leaf) Name() string {
	return l.Manifest.Package.Name
}

// IsBinary reports whether the leaf links into an executable.
func (l *Leaf) IsBinary() bool {
	return l.Manifest.Package.Kind == manifest.KindBinary
}

// ID identifies a leaf configuration across builds. Two leaves share an ID
// only if they share a path and a resolved feature set, so build records for
// one configuration never satisfy another.
func (l *Leaf) ID() string {
	return l.Name() + "-" + l.ConfigHash()
}

// ConfigHash is a short stable digest of (path, resolved features). It keys
// per-configuration build directories so two configurations of the same leaf
// never collide on artifact paths.
func (l *Leaf) ConfigHash() string {
	sum := sha256.Sum256([]byte(l.Root + "\x00" + l.Features.Canonical()))
	return hex.EncodeToString(sum[:4])
}

// Plan is the fully resolved build plan: the leaf arena in topological order,
// dependencies strictly before dependents. The root leaf is always last.
type Plan struct {
	Leaves []*Leaf
}

// RootIndex returns the arena index of the root leaf.
func (p *Plan) RootIndex() int {
	return len(p.Leaves) - 1
}

// Root returns the root leaf.
func (p *Plan) Root() *Leaf {
	return p.Leaves[p.RootIndex()]
}

// TransitiveDeps returns the arena indices of every leaf reachable from the
// leaf at idx, in topological order (dependencies before dependents).
func (p *Plan) TransitiveDeps(idx int) []int {
	seen := make(map[int]bool)
	var mark func(int)
	mark = func(i int) {
		for _, dep := range p.Leaves[i].Deps {
			if !seen[dep] {
				seen[dep] = true
				mark(dep)
			}
		}
	}
	mark(idx)

	// Arena order is topological, so a filtered scan preserves it.
	var deps []int
	for i := range p.Leaves {
		if seen[i] {
			deps = append(deps, i)
		}
	}
	return deps
}
