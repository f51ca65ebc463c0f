package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vk/tea/internal/backend"
	"github.com/vk/tea/internal/graph"
	"github.com/vk/tea/internal/source"
	"github.com/vk/tea/internal/state"
)

// staleUnit is a translation unit that must be recompiled, paired with the
// fingerprint to record once its object is confirmed.
type staleUnit struct {
	unit        source.TranslationUnit
	fingerprint string
	object      string
}

// buildLeaf compiles the leaf's stale units against the global worker pool,
// then archives or links it. Unit compilation has no intra-leaf ordering; the
// link step waits for every unit. A failed unit never aborts its siblings,
// but it does block the link.
func (s *Scheduler) buildLeaf(ctx context.Context, lr *leafRun, runs []*leafRun) error {
	leaf := lr.leaf
	leafID := leaf.ID()
	objDir := s.objectDir(lr.idx)
	includeDirs := s.includeDirs(lr.idx)
	defines := leaf.Features.Macros()

	stale, objects, err := s.staleUnits(leaf, leafID, objDir, includeDirs)
	if err != nil {
		return err
	}
	s.reused.Add(int64(len(leaf.Units) - len(stale)))

	if len(stale) > 0 {
		var (
			mu      sync.Mutex
			diags   []CompileDiagnostic
			dropped int
			done    int
		)

		var wg sync.WaitGroup
		for _, su := range stale {
			wg.Add(1)
			go func(su staleUnit) {
				defer wg.Done()

				// Admission to the global pool; bounds compiles across
				// all concurrently building leaves.
				s.sem <- struct{}{}
				defer func() { <-s.sem }()

				err := s.opts.Backend.Compile(ctx, backend.CompileJob{
					Source:      su.unit.Source,
					Object:      su.object,
					Defines:     defines,
					IncludeDirs: includeDirs,
					Flags:       s.opts.CFlags,
				})

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if len(diags) < MaxDiagnostics {
						diags = append(diags, CompileDiagnostic{
							Leaf:   leaf.Name(),
							Source: su.unit.Source,
							Output: diagnosticOutput(err),
						})
					} else {
						dropped++
					}
					return
				}

				// The object is confirmed on disk; only now does the
				// record become visible to the next build.
				s.opts.Store.Commit(leafID, su.unit.Object, state.Record{
					Fingerprint: su.fingerprint,
					Object:      su.object,
				})
				s.compiled.Add(1)
				done++
				s.progress(leaf, EventCompile, done, len(stale))
			}(su)
		}
		wg.Wait()

		if len(diags) > 0 || dropped > 0 {
			return &BuildError{Diagnostics: diags, Dropped: dropped}
		}
	}

	// A binary must relink when any transitive dependency regenerated its
	// archive, even if its own units are all fresh.
	rebuilt := len(stale) > 0
	if leaf.IsBinary() {
		for _, depIdx := range s.plan.TransitiveDeps(lr.idx) {
			if runs[depIdx].regenerated {
				rebuilt = true
				break
			}
		}
	}

	return s.produceArtifact(ctx, lr, objects, rebuilt)
}

// staleUnits fingerprints every unit of the leaf and splits them into
// up-to-date and stale. It also returns the full object list in unit order
// for the link step.
func (s *Scheduler) staleUnits(leaf *graph.Leaf, leafID, objDir string, includeDirs []string) ([]staleUnit, []string, error) {
	var stale []staleUnit
	objects := make([]string, 0, len(leaf.Units))

	for _, unit := range leaf.Units {
		object := filepath.Join(objDir, unit.Object)
		objects = append(objects, object)

		fp, err := s.opts.Scanner.Fingerprint(unit.Source, includeDirs)
		if err != nil {
			return nil, nil, fmt.Errorf("fingerprinting %s: %w", unit.Source, err)
		}

		if rec, ok := s.opts.Store.Lookup(leafID, unit.Object); ok && rec.Fingerprint == fp && fileExists(object) {
			continue
		}
		stale = append(stale, staleUnit{unit: unit, fingerprint: fp, object: object})
	}
	return stale, objects, nil
}

// produceArtifact archives a library or links a binary from the leaf's
// objects. A fresh artifact over unchanged objects is left alone.
func (s *Scheduler) produceArtifact(ctx context.Context, lr *leafRun, objects []string, rebuilt bool) error {
	leaf := lr.leaf
	artifact := s.artifactPath(lr.idx)
	lr.artifact = artifact

	if !rebuilt && fileExists(artifact) {
		s.progress(leaf, EventFresh, 0, 0)
		return nil
	}
	lr.regenerated = true

	if err := os.MkdirAll(filepath.Dir(artifact), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(artifact), err)
	}

	if !leaf.IsBinary() {
		// Dependency archives stay separate; merging them here would
		// duplicate symbols at the final binary link.
		s.progress(leaf, EventArchive, 0, 0)
		if err := s.opts.Backend.Archive(ctx, backend.ArchiveJob{Objects: objects, Archive: artifact}); err != nil {
			return &LinkError{Leaf: leaf.Name(), Output: diagnosticOutput(err)}
		}
		return nil
	}

	// Binary: own objects plus every transitive dependency archive, in
	// dependency-before-dependent order.
	var archives []string
	for _, depIdx := range s.plan.TransitiveDeps(lr.idx) {
		archives = append(archives, s.artifactPath(depIdx))
	}

	s.progress(leaf, EventLink, 0, 0)
	if err := s.opts.Backend.Link(ctx, backend.LinkJob{
		Objects:  objects,
		Archives: archives,
		Output:   artifact,
		Flags:    s.opts.LDFlags,
	}); err != nil {
		output := diagnosticOutput(err)
		return &LinkError{Leaf: leaf.Name(), Unresolved: unresolvedSymbol(output), Output: output}
	}
	return nil
}

// diagnosticOutput extracts the verbatim tool output from a backend error.
func diagnosticOutput(err error) string {
	if diag, ok := err.(*backend.Diagnostic); ok {
		return diag.Output
	}
	return err.Error()
}
