package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Cycle holds the leaf paths along the
// offending recursion path, starting and ending at the repeated leaf.
type CycleError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// NotFoundError reports a dependency declaration whose path holds no leaf.
type NotFoundError struct {
	Name string
	Path string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dependency %q not found at %s", e.Name, e.Path)
}

// DuplicateNameError reports two distinct leaves sharing a package name.
// Archives are named after the package, so this would collide at link time.
type DuplicateNameError struct {
	Name  string
	PathA string
	PathB string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("package name %q used by both %s and %s", e.Name, e.PathA, e.PathB)
}

// NotLibraryError reports a dependency on a binary leaf. Only libraries can
// be depended on.
type NotLibraryError struct {
	Name string
	Path string
}

// Error implements the error interface.
func (e *NotLibraryError) Error() string {
	return fmt.Sprintf("dependency %q at %s is a binary, only libraries can be dependencies", e.Name, e.Path)
}
