package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandRequiresExactlyOneKind(t *testing.T) {
	newBin, newLib = false, false
	err := runNew(newCmd, []string{"demo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --lib or --bin")

	newBin, newLib = true, true
	err = runNew(newCmd, []string{"demo"})
	require.Error(t, err)
}

func TestNewCommandScaffolds(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	newBin, newLib = true, false
	defer func() { newBin = false }()

	require.NoError(t, runNew(newCmd, []string{"demo"}))
	assert.FileExists(t, "demo/tea.toml")
	assert.FileExists(t, "demo/src/main.c")
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3, Message: "boom"}
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, 3, err.Code)
}
