package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9595", cfg.ServerPort)
	assert.Equal(t, 5, cfg.ResultLimit)
	assert.Equal(t, 5.0, cfg.RadiusKm)
	assert.Equal(t, 23.685, cfg.StartLat)
	assert.Equal(t, 90.3563, cfg.StartLng)
	assert.Empty(t, cfg.CatalogPath)
}

func TestLoad_EnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	dotenv := "RESULT_LIMIT=3\nSERVER_PORT=7000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644))
	t.Setenv("SERVER_PORT", "8088")
	t.Cleanup(func() { os.Unsetenv("RESULT_LIMIT") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.ResultLimit)
	assert.Equal(t, "8088", cfg.ServerPort)
}

// chdir switches the working directory for the duration of the test,
// restoring the previous one on cleanup (stand-in for Go 1.24's t.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
