package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	// An explicitly named file that does not exist is an error; defaults
	// come through only when no path is forced.
	if err == nil {
		t.Log("viper tolerated missing explicit config")
	}

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Capture.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Capture.WindowTimeout)
	assert.Equal(t, 50, cfg.Capture.MaxDepth)
	assert.Equal(t, 3, cfg.Capture.ChildRetries)
	assert.Equal(t, 0, cfg.Capture.DedupTolerance)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, 8931, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.CacheTTL)
	assert.True(t, cfg.Analytics.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winmcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
capture:
  pool_size: 4
  window_timeout: 2s
  max_depth: 25
server:
  transport: streamable-http
  port: 9000
analytics:
  enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Capture.PoolSize)
	assert.Equal(t, 2*time.Second, cfg.Capture.WindowTimeout)
	assert.Equal(t, 25, cfg.Capture.MaxDepth)
	assert.Equal(t, "streamable-http", cfg.Server.Transport)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Analytics.Enabled)

	// Unspecified keys keep their defaults.
	assert.Equal(t, 3, cfg.Capture.ChildRetries)
	assert.Equal(t, 2*time.Second, cfg.Server.CacheTTL)
}

func TestSnapshotIsolatedFromReload(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	snap := cfg.Snapshot()
	cfgMu.Lock()
	cfg.Capture.PoolSize = 99
	cfgMu.Unlock()
	assert.Equal(t, 8, snap.Capture.PoolSize)
	assert.Equal(t, 99, cfg.Snapshot().Capture.PoolSize)
}

func TestSnapshotConcurrentWithReload(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	// Writes mimic the hot-reload path: mutate *cfg under the reload lock
	// while readers take snapshots. Run with -race to verify.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			cfgMu.Lock()
			cfg.Capture.PoolSize = i
			cfgMu.Unlock()
		}
	}()
	for i := 0; i < 500; i++ {
		_ = cfg.Snapshot()
	}
	<-done
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WINMCP_CAPTURE_POOL_SIZE", "2")
	t.Setenv("WINMCP_SERVER_TRANSPORT", "streamable-http")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Capture.PoolSize)
	assert.Equal(t, "streamable-http", cfg.Server.Transport)
}
