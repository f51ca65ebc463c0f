package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tea/internal/feature"
)

var linux = feature.Platform{OS: "linux", Arch: "amd64"}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), linux)
	require.NoError(t, err)

	assert.Empty(t, cfg.CC())
	assert.Empty(t, cfg.AR())
	assert.Equal(t, []string{"-lm"}, cfg.LDFlags())
	assert.Equal(t, []string{"-g"}, cfg.CFlags("debug"))
	assert.Equal(t, []string{"-O2"}, cfg.CFlags("release"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `
toolchain {
  cc      = "clang"
  ar      = "llvm-ar"
  ldflags = ["-lm", "-lpthread"]
}

profile "release" {
  cflags = ["-O3", "-flto"]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load(dir, linux)
	require.NoError(t, err)

	assert.Equal(t, "clang", cfg.CC())
	assert.Equal(t, "llvm-ar", cfg.AR())
	assert.Equal(t, []string{"-lm", "-lpthread"}, cfg.LDFlags())
	assert.Equal(t, []string{"-O3", "-flto"}, cfg.CFlags("release"))
	// Profiles not overridden keep their defaults.
	assert.Equal(t, []string{"-g"}, cfg.CFlags("debug"))
}

func TestLoadPlatformExpressions(t *testing.T) {
	dir := t.TempDir()
	content := `
profile "release" {
  cflags = os == "windows" ? ["-O2"] : ["-O2", "-fPIC"]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load(dir, linux)
	require.NoError(t, err)
	assert.Equal(t, []string{"-O2", "-fPIC"}, cfg.CFlags("release"))

	cfg, err = Load(dir, feature.Platform{OS: "windows", Arch: "amd64"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-O2"}, cfg.CFlags("release"))
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("profile {"), 0o644))

	_, err := Load(dir, linux)
	assert.Error(t, err)
}
