package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// featureNameRe is the allowed shape of a declared feature name. Lowercase is
// part of the stable file-suffix contract (name.<feature>.c).
var featureNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Load reads and validates the tea.toml inside dir. It is a pure function of
// the file contents: no side effects, and identical bytes always yield an
// identical Manifest.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)

	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: ErrNotFound, Path: path}
		}
		return nil, &Error{Kind: ErrMalformed, Path: path, Err: err}
	}
	m.Path = path
	m.DependencyOrder = dependencyOrder(md)

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// dependencyOrder extracts the [dependencies] keys in document order.
func dependencyOrder(md toml.MetaData) []string {
	var order []string
	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == "dependencies" {
			order = append(order, key[1])
		}
	}
	return order
}

func (m *Manifest) validate() error {
	if m.Package.Name == "" {
		return &Error{Kind: ErrMalformed, Path: m.Path, Detail: "package.name is required"}
	}
	if !m.Package.Kind.valid() {
		return &Error{Kind: ErrMalformed, Path: m.Path, Detail: fmt.Sprintf("package.kind must be %q or %q, got %q", KindBinary, KindLibrary, m.Package.Kind)}
	}

	reserved := make(map[string]bool, len(BuiltinFeatures))
	for _, name := range BuiltinFeatures {
		reserved[name] = true
	}

	seen := make(map[string]bool, len(m.Package.Features))
	for _, f := range m.Package.Features {
		if !featureNameRe.MatchString(f.Name) {
			return &Error{Kind: ErrMalformed, Path: m.Path, Detail: fmt.Sprintf("invalid feature name %q", f.Name)}
		}
		if reserved[f.Name] {
			return &Error{Kind: ErrReservedFeature, Path: m.Path, Detail: f.Name}
		}
		if seen[f.Name] {
			return &Error{Kind: ErrMalformed, Path: m.Path, Detail: fmt.Sprintf("feature %q declared twice", f.Name)}
		}
		seen[f.Name] = true
	}

	for name, dep := range m.Dependencies {
		if dep.Path == "" {
			return &Error{Kind: ErrMalformed, Path: m.Path, Detail: fmt.Sprintf("dependency %q has no path", name)}
		}
	}
	return nil
}

// Save writes the manifest back to dir/tea.toml. Used by `new` and `add`;
// a build never writes manifests.
func Save(dir string, m *Manifest) error {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
