package manifest

import "fmt"

// ErrorKind classifies manifest load failures.
type ErrorKind int

const (
	// ErrNotFound means no tea.toml exists at the given path.
	ErrNotFound ErrorKind = iota
	// ErrMalformed covers structural and type errors in the file.
	ErrMalformed
	// ErrReservedFeature means a declared feature collides with a built-in
	// platform feature name.
	ErrReservedFeature
)

// Error is the typed failure returned by Load. It always carries the manifest
// path so callers can report the offending leaf.
type Error struct {
	Kind   ErrorKind
	Path   string
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("no %s found at %s", FileName, e.Path)
	case ErrReservedFeature:
		return fmt.Sprintf("%s: feature %q collides with a built-in platform feature", e.Path, e.Detail)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s: malformed manifest: %s", e.Path, e.Detail)
		}
		return fmt.Sprintf("%s: malformed manifest: %v", e.Path, e.Err)
	}
}

// Unwrap exposes the underlying decode error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}
