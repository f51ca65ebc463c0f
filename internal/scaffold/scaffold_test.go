package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tea/internal/manifest"
)

func TestNewBinary(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, New(parent, "app", manifest.KindBinary))

	root := filepath.Join(parent, "app")
	assert.FileExists(t, filepath.Join(root, "src", "main.c"))

	m, err := manifest.Load(root)
	require.NoError(t, err)
	assert.Equal(t, "app", m.Package.Name)
	assert.Equal(t, manifest.KindBinary, m.Package.Kind)
	assert.Equal(t, "0.0.1", m.Package.Version)
}

func TestNewLibrary(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, New(parent, "geom", manifest.KindLibrary))

	root := filepath.Join(parent, "geom")
	assert.FileExists(t, filepath.Join(root, "src", "geom.c"))
	assert.FileExists(t, filepath.Join(root, "include", "geom.h"))

	header, err := os.ReadFile(filepath.Join(root, "include", "geom.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "geom_version")

	m, err := manifest.Load(root)
	require.NoError(t, err)
	assert.Equal(t, manifest.KindLibrary, m.Package.Kind)
}

func TestNewExistingDirectory(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "app"), 0o755))

	err := New(parent, "app", manifest.KindBinary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
