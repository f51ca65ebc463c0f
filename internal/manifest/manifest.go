// Package manifest defines the typed model of a leaf's tea.toml file and its
// load/save lifecycle. A Manifest is loaded once per leaf and is immutable
// afterwards; every other component works off the loaded value.
package manifest

import "fmt"

// FileName is the manifest file expected at the root of every leaf.
const FileName = "tea.toml"

// Kind distinguishes the two artifact shapes a leaf can produce.
type Kind string

const (
	// KindBinary marks a leaf that links into an executable.
	KindBinary Kind = "bin"
	// KindLibrary marks a leaf that archives into a static library.
	KindLibrary Kind = "lib"
)

// BuiltinFeatures are the platform identity features injected by the feature
// resolver. They are reserved: a manifest may not declare a feature with one
// of these names.
var BuiltinFeatures = []string{"windows", "linux", "darwin"}

// FeatureDecl declares a single feature a leaf understands and whether it is
// enabled when nobody asks for it.
type FeatureDecl struct {
	Name    string `toml:"name"`
	Default bool   `toml:"default,omitempty"`
}

// DependencyDecl references another leaf on the local filesystem and lists
// the features this leaf wants enabled on it.
type DependencyDecl struct {
	Path     string   `toml:"path"`
	Features []string `toml:"features,omitempty"`
}

// Package holds the [package] table of a manifest.
type Package struct {
	Name     string        `toml:"name"`
	Kind     Kind          `toml:"kind"`
	Version  string        `toml:"version,omitempty"`
	Authors  []string      `toml:"authors,omitempty"`
	Features []FeatureDecl `toml:"features,omitempty"`
}

// Manifest is the typed form of one tea.toml file.
type Manifest struct {
	Package      Package                   `toml:"package"`
	Dependencies map[string]DependencyDecl `toml:"dependencies,omitempty"`

	// DependencyOrder lists dependency names in document order, so graph
	// resolution discovers leaves in the order the author wrote them.
	DependencyOrder []string `toml:"-"`

	// Path is the file the manifest was loaded from, for error reporting.
	Path string `toml:"-"`
}

// DeclaredFeatures returns the set of feature names the manifest declares,
// mapped to their default-enabled flag.
func (m *Manifest) DeclaredFeatures() map[string]bool {
	declared := make(map[string]bool, len(m.Package.Features))
	for _, f := range m.Package.Features {
		declared[f.Name] = f.Default
	}
	return declared
}

// Version returns the package version, or a placeholder when unset.
func (m *Manifest) Version() string {
	if m.Package.Version == "" {
		return "0.0.0"
	}
	return m.Package.Version
}

func (k Kind) valid() bool {
	return k == KindBinary || k == KindLibrary
}

// String implements fmt.Stringer for log output.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s v%s (%s)", m.Package.Name, m.Version(), m.Package.Kind)
}
