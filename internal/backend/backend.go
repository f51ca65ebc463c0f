// Package backend abstracts the compiler and linker as an external
// capability: compile one translation unit, archive objects, link an
// executable. The build scheduler never shells out directly; it speaks this
// interface, and tests substitute an in-memory implementation.
package backend

import "context"

// CompileJob compiles one source file into one object file.
type CompileJob struct {
	Source string
	Object string
	// Defines are macro names passed to the compiler (already in their
	// final FEATURE_* form).
	Defines []string
	// IncludeDirs are header search roots, in priority order.
	IncludeDirs []string
	// Flags are extra compiler flags from the active profile.
	Flags []string
}

// ArchiveJob bundles objects into a static library.
type ArchiveJob struct {
	Objects []string
	Archive string
}

// LinkJob links objects and static libraries into an executable.
type LinkJob struct {
	Objects  []string
	Archives []string
	Output   string
	Flags    []string
}

// Toolchain is the external compile/link capability.
type Toolchain interface {
	Compile(ctx context.Context, job CompileJob) error
	Archive(ctx context.Context, job ArchiveJob) error
	Link(ctx context.Context, job LinkJob) error
}

// Diagnostic is a failed backend invocation, carrying the tool output
// verbatim for the user.
type Diagnostic struct {
	File   string
	Output string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Output == "" {
		return d.File + ": backend failed with no output"
	}
	return d.File + ":\n" + d.Output
}
