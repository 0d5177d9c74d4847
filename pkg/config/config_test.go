package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, "", cfg.Cluster.Namespace)
	assert.Equal(t, "", cfg.Cluster.SnapshotDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, ":7474", cfg.Query.Addr)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadOverlaysYAMLOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ariadne.yaml")
	contents := []byte(`
cluster:
  context: prod-east
  namespace: payments
logging:
  level: debug
  json: true
metrics:
  enabled: false
`)
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod-east", cfg.Cluster.Context)
	assert.Equal(t, "payments", cfg.Cluster.Namespace)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.False(t, cfg.Metrics.Enabled)
	// Fields absent from the file keep New()'s defaults.
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cluster: [this is not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLogConfigAdaptsToPkgLog(t *testing.T) {
	cfg := New()
	cfg.Logging.Level = "warn"
	cfg.Logging.JSON = true

	lc := cfg.LogConfig()
	assert.Equal(t, "warn", string(lc.Level))
	assert.True(t, lc.JSONOutput)
}
