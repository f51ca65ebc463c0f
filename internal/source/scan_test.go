package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFingerprint(t *testing.T) {
	t.Run("stable for unchanged inputs", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		write(t, src, "#include \"util.h\"\nint main() { return 0; }\n")
		write(t, filepath.Join(dir, "src", "util.h"), "#pragma once\n")

		dirs := []string{filepath.Join(dir, "src")}
		a, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)
		b, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("direct header change invalidates", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		header := filepath.Join(dir, "src", "util.h")
		write(t, src, "#include \"util.h\"\nint main() { return 0; }\n")
		write(t, header, "#pragma once\n")

		dirs := []string{filepath.Join(dir, "src")}
		before, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)

		write(t, header, "#pragma once\n#define X 1\n")
		after, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("transitive header change invalidates", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		deep := filepath.Join(dir, "src", "deep.h")
		write(t, src, "#include \"util.h\"\nint main() { return 0; }\n")
		write(t, filepath.Join(dir, "src", "util.h"), "#include \"deep.h\"\n")
		write(t, deep, "#pragma once\n")

		dirs := []string{filepath.Join(dir, "src")}
		before, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)

		write(t, deep, "#pragma once\nint deep(void);\n")
		after, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("unrelated header change does not invalidate", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		write(t, src, "#include \"util.h\"\nint main() { return 0; }\n")
		write(t, filepath.Join(dir, "src", "util.h"), "#pragma once\n")
		other := filepath.Join(dir, "src", "other.h")
		write(t, other, "#pragma once\n")

		dirs := []string{filepath.Join(dir, "src")}
		before, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)

		write(t, other, "#pragma once\nint other(void);\n")
		after, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("system and unresolved includes are skipped", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		write(t, src, "#include <stdio.h>\n#include \"missing.h\"\nint main() { return 0; }\n")

		_, err := NewScanner().Fingerprint(src, []string{filepath.Join(dir, "src")})
		assert.NoError(t, err)
	})

	t.Run("include cycle terminates", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		write(t, src, "#include \"a.h\"\n")
		write(t, filepath.Join(dir, "src", "a.h"), "#include \"b.h\"\n")
		write(t, filepath.Join(dir, "src", "b.h"), "#include \"a.h\"\n")

		_, err := NewScanner().Fingerprint(src, []string{filepath.Join(dir, "src")})
		assert.NoError(t, err)
	})

	t.Run("headers resolve through include dirs", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src", "main.c")
		depHeader := filepath.Join(dir, "dep", "include", "lib.h")
		write(t, src, "#include \"lib.h\"\nint main() { return 0; }\n")
		write(t, depHeader, "#pragma once\n")

		dirs := []string{filepath.Join(dir, "src"), filepath.Join(dir, "dep", "include")}
		before, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)

		write(t, depHeader, "#pragma once\nint lib(void);\n")
		after, err := NewScanner().Fingerprint(src, dirs)
		require.NoError(t, err)
		assert.NotEqual(t, before, after, "dependency headers participate in the fingerprint")
	})
}

func TestIncludeScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.c")
	write(t, path, `#include <stdio.h>
# include "spaced.h"
  #include "indented.h"
#include "quoted.h" // trailing comment
int x;
`)

	names, err := NewScanner().includeNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"spaced.h", "indented.h", "quoted.h"}, names)
}
