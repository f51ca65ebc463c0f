package source

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// includeRe matches quoted include directives. Angle-bracket includes name
// system headers outside the workspace and never participate in
// fingerprinting. This is a textual scan, not preprocessing: an include
// mentioned inside a comment still counts, which at worst fingerprints more
// files than strictly necessary.
var includeRe = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)

const memoEntries = 4096

// Scanner fingerprints translation units: a unit's fingerprint covers the
// source file and every project header it transitively includes. Per-file
// work is memoized, so one Scanner should be shared across a whole build.
type Scanner struct {
	// directives caches the raw quoted-include names found in a file.
	directives *lru.Cache[string, []string]
	// hashes caches per-file content digests.
	hashes *lru.Cache[string, string]
}

// NewScanner returns a Scanner with empty memo caches.
func NewScanner() *Scanner {
	directives, _ := lru.New[string, []string](memoEntries)
	hashes, _ := lru.New[string, string](memoEntries)
	return &Scanner{directives: directives, hashes: hashes}
}

// Fingerprint computes the content fingerprint of the source file at path.
// Quoted includes are resolved against the including file's directory first,
// then each include directory in order; includes that resolve nowhere are
// assumed external and skipped. Identical file contents always produce an
// identical fingerprint.
func (s *Scanner) Fingerprint(path string, includeDirs []string) (string, error) {
	visited := make(map[string]bool)
	if err := s.closure(path, includeDirs, visited); err != nil {
		return "", err
	}

	// Hash over sorted (path, digest) pairs so traversal order is irrelevant.
	files := make([]string, 0, len(visited))
	for f := range visited {
		files = append(files, f)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		digest, err := s.fileHash(f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s\x00%s\x00", f, digest)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// closure adds path and every header it transitively includes to visited.
func (s *Scanner) closure(path string, includeDirs []string, visited map[string]bool) error {
	if visited[path] {
		return nil
	}
	visited[path] = true

	names, err := s.includeNames(path)
	if err != nil {
		return err
	}
	for _, name := range names {
		resolved, ok := resolveInclude(name, filepath.Dir(path), includeDirs)
		if !ok {
			continue
		}
		if err := s.closure(resolved, includeDirs, visited); err != nil {
			return err
		}
	}
	return nil
}

// includeNames returns the quoted include names appearing in the file.
func (s *Scanner) includeNames(path string) ([]string, error) {
	if names, ok := s.directives.Get(path); ok {
		return names, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scanning includes of %s: %w", path, err)
	}

	names := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if m := includeRe.FindStringSubmatch(scanner.Text()); m != nil {
			names = append(names, m[1])
		}
	}

	s.directives.Add(path, names)
	s.hashes.Add(path, digestOf(data))
	return names, nil
}

func (s *Scanner) fileHash(path string) (string, error) {
	if digest, ok := s.hashes.Get(path); ok {
		return digest, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	digest := digestOf(data)
	s.hashes.Add(path, digest)
	return digest, nil
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func resolveInclude(name, fromDir string, includeDirs []string) (string, bool) {
	candidates := append([]string{fromDir}, includeDirs...)
	for _, dir := range candidates {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return filepath.Clean(candidate), true
		}
	}
	return "", false
}
