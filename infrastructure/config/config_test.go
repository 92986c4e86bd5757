package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleFile = `
environment: staging
data_source: memory
snapshot_file: /data/snapshot.yaml
rate_limit_rps: 5
domain:
  default_page_size: 15
  snapshot_cache_ttl: 10s
  engagement:
    share_weight: 4
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DATA_SOURCE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, DataSourceDynamoDB, cfg.DataSource)
	assert.Equal(t, "GSI1", cfg.IndexName)
	assert.Equal(t, 20, cfg.Domain.DefaultPageSize)
	assert.False(t, cfg.Domain.EnableQueryCaching, "development disables caching")
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", sampleFile)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("SNAPSHOT_FILE", "")
	t.Setenv("RATE_LIMIT_RPS", "7.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, DataSourceMemory, cfg.DataSource)
	assert.Equal(t, "/data/snapshot.yaml", cfg.SnapshotFile)
	assert.Equal(t, 7.5, cfg.RateLimitRPS, "environment wins over the file")
	assert.Equal(t, path, cfg.ConfigFile)

	assert.Equal(t, 15, cfg.Domain.DefaultPageSize)
	assert.Equal(t, 10*time.Second, cfg.Domain.SnapshotCacheTTL)
	assert.Equal(t, 4.0, cfg.Domain.Engagement.ShareWeight)
	assert.Equal(t, 2.0, cfg.Domain.Engagement.CommentWeight, "unset weights keep defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "unknown data source", env: map[string]string{"DATA_SOURCE": "postgres"}},
		{name: "memory without snapshot", env: map[string]string{"DATA_SOURCE": "memory", "SNAPSHOT_FILE": ""}},
		{name: "production without event bus", env: map[string]string{"ENVIRONMENT": "production", "EVENT_BUS_NAME": ""}},
		{name: "invalid domain section", file: "domain:\n  max_page_size: 0\n"},
		{name: "malformed file", file: "domain: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv("DATA_SOURCE", "")
			t.Setenv("ENVIRONMENT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				t.Setenv("CONFIG_FILE", writeFile(t, t.TempDir(), "config.yaml", tt.file))
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadDomainConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", sampleFile)

	domain, err := LoadDomainConfig(path, "production")
	require.NoError(t, err)
	assert.Equal(t, 15, domain.DefaultPageSize)
	assert.Equal(t, 50, domain.MaxPageSize, "production defaults underneath")

	_, err = LoadDomainConfig(filepath.Join(t.TempDir(), "missing.yaml"), "production")
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", sampleFile)
	other := writeFile(t, dir, "other.yaml", "x: 1\n")

	w, err := NewWatcher(zap.NewNop())
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	var reloads atomic.Int32
	require.NoError(t, w.Add(path, func() error {
		reloads.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(other, []byte("x: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(sampleFile+"\n"), 0o644))

	assert.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
