package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCCDefaults(t *testing.T) {
	cc := NewCC("", "")
	assert.Equal(t, "cc", cc.Compiler)
	assert.Equal(t, "ar", cc.Archiver)

	cc = NewCC("clang", "llvm-ar")
	assert.Equal(t, "clang", cc.Compiler)
	assert.Equal(t, "llvm-ar", cc.Archiver)
}

func TestDiagnosticError(t *testing.T) {
	d := &Diagnostic{File: "main.c", Output: "main.c:3: error: expected ';'"}
	assert.Equal(t, "main.c:\nmain.c:3: error: expected ';'", d.Error())

	d = &Diagnostic{File: "main.c"}
	assert.Equal(t, "main.c: backend failed with no output", d.Error())
}

func TestCompileMissingTool(t *testing.T) {
	cc := NewCC("tea-test-no-such-compiler", "")
	dir := t.TempDir()

	err := cc.Compile(context.Background(), CompileJob{
		Source: filepath.Join(dir, "main.c"),
		Object: filepath.Join(dir, "objects", "main.o"),
	})

	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.NotEmpty(t, diag.Output)
	// The object directory is still prepared before the tool runs.
	assert.DirExists(t, filepath.Join(dir, "objects"))
}
