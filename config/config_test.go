package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
runtime = "memory"
reconcile_interval_seconds = 3
redis_addr = "localhost:6379"
openai_model = "gpt-4o"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, RuntimeMemory, cfg.Runtime)
	assert.Equal(t, 3*time.Second, cfg.ReconcileInterval)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	// Untouched keys keep their defaults.
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`runtime = "docker"`), 0o644))

	t.Setenv("HELMSMAN_RUNTIME", "memory")
	t.Setenv("HELMSMAN_RECONCILE_INTERVAL", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RuntimeMemory, cfg.Runtime)
	assert.Equal(t, 2*time.Second, cfg.ReconcileInterval)
}

func TestLoadRejectsUnknownRuntime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`runtime = "podman"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	// An explicit zero would turn the fixed-delay loop into a hot loop.
	for _, content := range []string{
		"reconcile_interval_seconds = 0",
		"reconcile_interval_seconds = -5",
		"call_timeout_seconds = 0",
	} {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := Load(path)
		assert.Error(t, err, content)
	}
}
