// Package feature computes the final enabled-feature set for a leaf.
//
// Resolution starts from the manifest's default-enabled features, adds the
// features the dependent leaf requested, then forces the built-in platform
// features on or off according to the actual target. The result is a closed,
// validated set: requesting a name the manifest never declared is an error,
// so unknown names are rejected here rather than at macro-emission time.
package feature

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/vk/tea/internal/manifest"
)

// MacroPrefix is the fixed prefix of generated preprocessor macros. A resolved
// feature `foo` is exposed to compiled sources as `FEATURE_FOO`. This mapping
// is a stable external contract.
const MacroPrefix = "FEATURE_"

// Platform identifies the build target. Built-in features are derived from it
// and are never user-togglable.
type Platform struct {
	OS   string
	Arch string
}

// HostPlatform returns the platform tea itself is running on.
func HostPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// UnknownError reports a requested feature the manifest does not declare.
type UnknownError struct {
	Name     string
	Manifest string
}

// Error implements the error interface.
func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s: unknown feature %q requested", e.Manifest, e.Name)
}

// Set is an immutable, resolved feature set.
type Set struct {
	enabled map[string]struct{}
}

// NewSet builds a Set directly from names. Intended for tests and for the
// source selector, which needs ad-hoc sets.
func NewSet(names ...string) Set {
	enabled := make(map[string]struct{}, len(names))
	for _, n := range names {
		enabled[n] = struct{}{}
	}
	return Set{enabled: enabled}
}

// Has reports whether the named feature is enabled.
func (s Set) Has(name string) bool {
	_, ok := s.enabled[name]
	return ok
}

// Names returns the enabled feature names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.enabled))
	for n := range s.enabled {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Canonical returns a stable string form of the set, used for leaf identity
// and cache keys. Identical sets always produce identical strings.
func (s Set) Canonical() string {
	return strings.Join(s.Names(), "+")
}

// Macros returns the preprocessor macro names for every enabled feature,
// sorted, e.g. ["FEATURE_TEXT", "FEATURE_WINDOWS"].
func (s Set) Macros() []string {
	macros := make([]string, 0, len(s.enabled))
	for n := range s.enabled {
		macros = append(macros, Macro(n))
	}
	sort.Strings(macros)
	return macros
}

// Macro maps one feature name to its preprocessor macro.
func Macro(name string) string {
	return MacroPrefix + strings.ToUpper(name)
}

// Resolve computes the enabled set for a leaf. Deterministic: identical
// manifest, requested names and platform always yield an identical Set.
func Resolve(m *manifest.Manifest, requested []string, platform Platform) (Set, error) {
	declared := m.DeclaredFeatures()

	enabled := make(map[string]struct{})
	for name, deflt := range declared {
		if deflt {
			enabled[name] = struct{}{}
		}
	}

	for _, name := range requested {
		if _, ok := declared[name]; !ok {
			return Set{}, &UnknownError{Name: name, Manifest: m.Path}
		}
		enabled[name] = struct{}{}
	}

	// Platform identity is forced by the actual target: on for the current
	// OS, off for every other built-in. Manifests cannot declare these names,
	// so no user input can flip them.
	for _, name := range manifest.BuiltinFeatures {
		if name == platform.OS {
			enabled[name] = struct{}{}
		}
	}

	return Set{enabled: enabled}, nil
}

// Known returns the full set of names valid for this manifest: declared
// features plus the built-in platform features. The source selector uses it
// to tell feature-suffixed files apart from files naming no known feature.
func Known(m *manifest.Manifest) map[string]bool {
	known := make(map[string]bool, len(m.Package.Features)+len(manifest.BuiltinFeatures))
	for _, f := range m.Package.Features {
		known[f.Name] = true
	}
	for _, name := range manifest.BuiltinFeatures {
		known[name] = true
	}
	return known
}
