package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tea/internal/manifest"
)

func demoManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Path: "demo/tea.toml",
		Package: manifest.Package{
			Name: "demo",
			Kind: manifest.KindLibrary,
			Features: []manifest.FeatureDecl{
				{Name: "text", Default: true},
				{Name: "shapes", Default: false},
				{Name: "audio", Default: false},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	linux := Platform{OS: "linux", Arch: "amd64"}

	t.Run("defaults only", func(t *testing.T) {
		set, err := Resolve(demoManifest(), nil, linux)
		require.NoError(t, err)
		assert.True(t, set.Has("text"))
		assert.False(t, set.Has("shapes"))
		assert.True(t, set.Has("linux"), "platform identity is always on")
		assert.False(t, set.Has("windows"))
	})

	t.Run("parent request enables a default-off feature", func(t *testing.T) {
		set, err := Resolve(demoManifest(), []string{"shapes"}, linux)
		require.NoError(t, err)
		assert.True(t, set.Has("shapes"))
		assert.True(t, set.Has("text"), "defaults stay on")
	})

	t.Run("unknown requested feature", func(t *testing.T) {
		_, err := Resolve(demoManifest(), []string{"sound"}, linux)
		var uerr *UnknownError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "sound", uerr.Name)
	})

	t.Run("platform switch flips builtins", func(t *testing.T) {
		set, err := Resolve(demoManifest(), nil, Platform{OS: "windows", Arch: "amd64"})
		require.NoError(t, err)
		assert.True(t, set.Has("windows"))
		assert.False(t, set.Has("linux"))
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := Resolve(demoManifest(), []string{"shapes", "audio"}, linux)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			b, err := Resolve(demoManifest(), []string{"audio", "shapes"}, linux)
			require.NoError(t, err)
			assert.Equal(t, a.Canonical(), b.Canonical())
			assert.Equal(t, a.Names(), b.Names())
		}
	})
}

func TestSet(t *testing.T) {
	set := NewSet("text", "linux")

	assert.Equal(t, []string{"linux", "text"}, set.Names())
	assert.Equal(t, "linux+text", set.Canonical())
	assert.Equal(t, []string{"FEATURE_LINUX", "FEATURE_TEXT"}, set.Macros())
}

func TestMacro(t *testing.T) {
	assert.Equal(t, "FEATURE_TEXT", Macro("text"))
	assert.Equal(t, "FEATURE_MY_THING", Macro("my_thing"))
}

func TestKnown(t *testing.T) {
	known := Known(demoManifest())
	assert.True(t, known["text"])
	assert.True(t, known["shapes"], "default-off features are still known names")
	// Builtins are known names even when disabled for the target.
	assert.True(t, known["windows"])
	assert.True(t, known["darwin"])
	_, declared := known["sound"]
	assert.False(t, declared)
}
