package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vk/tea/internal/ctxlog"
)

// CC drives a cc-compatible compiler and a binutils-compatible archiver.
type CC struct {
	// Compiler is the compiler/linker executable, "cc" by default.
	Compiler string
	// Archiver is the static archiver executable, "ar" by default.
	Archiver string
}

// NewCC returns a CC backend for the given tool names. Empty names fall back
// to cc and ar.
func NewCC(compiler, archiver string) *CC {
	if compiler == "" {
		compiler = "cc"
	}
	if archiver == "" {
		archiver = "ar"
	}
	return &CC{Compiler: compiler, Archiver: archiver}
}

// Compile implements Toolchain.
func (c *CC) Compile(ctx context.Context, job CompileJob) error {
	if err := os.MkdirAll(filepath.Dir(job.Object), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	args := make([]string, 0, len(job.Defines)+len(job.IncludeDirs)+len(job.Flags)+4)
	for _, d := range job.Defines {
		args = append(args, "-D"+d)
	}
	for _, dir := range job.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, job.Flags...)
	args = append(args, "-c", job.Source, "-o", job.Object)

	return c.run(ctx, job.Source, c.Compiler, args)
}

// Archive implements Toolchain.
func (c *CC) Archive(ctx context.Context, job ArchiveJob) error {
	args := append([]string{"rcs", job.Archive}, job.Objects...)
	return c.run(ctx, job.Archive, c.Archiver, args)
}

// Link implements Toolchain.
func (c *CC) Link(ctx context.Context, job LinkJob) error {
	args := make([]string, 0, len(job.Objects)+len(job.Archives)+len(job.Flags)+2)
	args = append(args, job.Objects...)
	args = append(args, job.Archives...)
	args = append(args, job.Flags...)
	args = append(args, "-o", job.Output)

	return c.run(ctx, job.Output, c.Compiler, args)
}

func (c *CC) run(ctx context.Context, file, tool string, args []string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Invoking backend tool.", "tool", tool, "args", args)

	cmd := exec.CommandContext(ctx, tool, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		output := out.String()
		if output == "" {
			output = err.Error()
		}
		return &Diagnostic{File: file, Output: output}
	}
	return nil
}
