// Package state persists per-unit build records between invocations, backing
// the incremental-rebuild decision.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the cache file kept next to the build outputs under target/.
const FileName = ".tea-cache.yaml"

// Record is what the previous successful build knew about one translation
// unit. A record is committed only after the backend confirms the object was
// written.
type Record struct {
	Fingerprint string `yaml:"fingerprint"`
	Object      string `yaml:"object"`
}

// Store holds the build records of one target directory. Reads and commits
// are safe from concurrent workers; the file itself is rewritten only by
// Flush.
type Store struct {
	path string

	mu      sync.Mutex
	records map[string]Record
	dirty   bool
}

// Load reads the store for the given target directory. A missing or corrupt
// cache file never fails the build: it loads as empty, forcing a full
// rebuild.
func Load(targetDir string) *Store {
	s := &Store{
		path:    filepath.Join(targetDir, FileName),
		records: make(map[string]Record),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, &s.records); err != nil {
		s.records = make(map[string]Record)
	}
	return s
}

// Lookup returns the record for a unit of the given leaf configuration.
func (s *Store) Lookup(leafID, unit string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key(leafID, unit)]
	return rec, ok
}

// Commit stores the record for a unit. Call it only after the unit's object
// is confirmed on disk.
func (s *Store) Commit(leafID, unit string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(leafID, unit)] = rec
	s.dirty = true
}

// Flush rewrites the cache file if any record changed since Load. The file is
// written whole via a temp file and rename, so a crash never leaves a
// half-written cache.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	data, err := yaml.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encoding build cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}
	s.dirty = false
	return nil
}

func key(leafID, unit string) string {
	return leafID + "::" + unit
}
