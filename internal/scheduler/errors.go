package scheduler

import (
	"fmt"
	"strings"
)

// MaxDiagnostics bounds how many per-file compile diagnostics a build
// reports; further failures are counted but their output is dropped.
const MaxDiagnostics = 10

// CompileDiagnostic is one failed translation unit with its compiler output.
type CompileDiagnostic struct {
	Leaf   string
	Source string
	Output string
}

// BuildError aggregates compile failures across the whole build. Sibling
// units keep compiling after the first failure, so one run reports as many
// diagnostics as possible.
type BuildError struct {
	Diagnostics []CompileDiagnostic
	// Dropped counts failures beyond MaxDiagnostics.
	Dropped int
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d translation unit(s) failed to compile", len(e.Diagnostics)+e.Dropped)
	for _, d := range e.Diagnostics {
		fmt.Fprintf(&b, "\n[%s] %s:\n%s", d.Leaf, d.Source, strings.TrimRight(d.Output, "\n"))
	}
	if e.Dropped > 0 {
		fmt.Fprintf(&b, "\n... and %d more", e.Dropped)
	}
	return b.String()
}

// LinkError is a failed archive or link step for one leaf. The backend
// output is surfaced verbatim.
type LinkError struct {
	Leaf string
	// Unresolved marks missing-symbol failures as opposed to other backend
	// failures.
	Unresolved bool
	Output     string
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	if e.Unresolved {
		return fmt.Sprintf("linking %s: unresolved symbols:\n%s", e.Leaf, strings.TrimRight(e.Output, "\n"))
	}
	return fmt.Sprintf("linking %s:\n%s", e.Leaf, strings.TrimRight(e.Output, "\n"))
}

// unresolvedSymbol sniffs linker output for the common missing-symbol
// phrasings of GNU ld, lld and the macOS linker.
func unresolvedSymbol(output string) bool {
	return strings.Contains(output, "undefined reference") ||
		strings.Contains(output, "undefined symbol") ||
		strings.Contains(output, "symbol(s) not found")
}
