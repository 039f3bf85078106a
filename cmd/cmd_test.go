package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "yams version dev")
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "yams.db")
	t.Setenv("DATABASE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	rootCmd.SetArgs([]string{"migrate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
