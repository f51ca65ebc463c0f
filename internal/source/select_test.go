package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tea/internal/feature"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))
	}
}

func sources(units []TranslationUnit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = filepath.Base(u.Source)
	}
	return out
}

func TestSelect(t *testing.T) {
	known := map[string]bool{"text": true, "shapes": true, "windows": true, "linux": true, "darwin": true}

	t.Run("plain files always included", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "main.c", "util.c", "util.h")

		units, err := Select(dir, feature.NewSet(), known, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"main.c", "util.c"}, sources(units))
	})

	t.Run("feature suffix gates inclusion", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "draw.c", "draw.text.c", "draw.shapes.c")

		units, err := Select(dir, feature.NewSet("text"), known, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"draw.c", "draw.text.c"}, sources(units))

		// Toggling the feature flips exactly that file.
		units, err = Select(dir, feature.NewSet("shapes"), known, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"draw.c", "draw.shapes.c"}, sources(units))
	})

	t.Run("platform suffix", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "io.c", "io.windows.c", "io.linux.c")

		units, err := Select(dir, feature.NewSet("linux"), known, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"io.c", "io.linux.c"}, sources(units))
	})

	t.Run("unknown feature warns and excludes", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.c", "a.sound.c")

		var warnedFile, warnedFeature string
		warn := func(file, featureName string) {
			warnedFile, warnedFeature = file, featureName
		}
		units, err := Select(dir, feature.NewSet("text"), known, warn)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.c"}, sources(units))
		assert.Equal(t, filepath.Join(dir, "a.sound.c"), warnedFile)
		assert.Equal(t, "sound", warnedFeature)
	})

	t.Run("nested directories keep layout in object paths", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, filepath.Join("render", "gl.c"), "main.c")

		units, err := Select(dir, feature.NewSet(), known, nil)
		require.NoError(t, err)
		require.Len(t, units, 2)
		assert.Equal(t, "main.o", units[0].Object)
		assert.Equal(t, filepath.Join("render", "gl.o"), units[1].Object)
	})

	t.Run("stable order", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "b.c", "a.c", "c.c")

		units, err := Select(dir, feature.NewSet(), known, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.c", "b.c", "c.c"}, sources(units))
	})
}

func TestFeatureSuffix(t *testing.T) {
	cases := []struct {
		name   string
		suffix string
		ok     bool
	}{
		{"main.c", "", false},
		{"draw.text.c", "text", true},
		{"a.b.c.c", "c", true},
		{"io.windows.c", "windows", true},
	}
	for _, tc := range cases {
		suffix, ok := featureSuffix(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.suffix, suffix, tc.name)
	}
}
