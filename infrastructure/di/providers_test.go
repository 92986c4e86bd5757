package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"socialgraph/application/queries"
	querybus "socialgraph/application/queries/bus"
	domainconfig "socialgraph/domain/config"
	"socialgraph/infrastructure/config"
	"socialgraph/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const twoUsers = `
users:
  - id: A
    friend_ids: [B]
  - id: B
    friend_ids: [A]
posts: []
`

const threeUsers = `
users:
  - id: A
    friend_ids: [B]
  - id: B
    friend_ids: [A, C]
  - id: C
    friend_ids: [B]
posts: []
`

func memoryConfig(t *testing.T, snapshot string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))
	return &config.Config{
		Environment:  "test",
		DataSource:   config.DataSourceMemory,
		SnapshotFile: path,
		Domain:       domainconfig.DefaultDomainConfig(),
	}
}

func TestProvideLogger(t *testing.T) {
	logger, err := ProvideLogger(&config.Config{Environment: "development", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = ProvideLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestProvideDataSource(t *testing.T) {
	cfg := memoryConfig(t, twoUsers)
	metrics := observability.NewCollector("test")

	ds, err := ProvideDataSource(cfg, nil, metrics, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, ds.Snapshot)

	users, err := ds.Users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	assert.NoError(t, ProvideReadinessCheck(ds.Users)(context.Background()))

	cfg.DataSource = "postgres"
	_, err = ProvideDataSource(cfg, nil, metrics, zap.NewNop())
	assert.Error(t, err)

	cfg.DataSource = config.DataSourceMemory
	cfg.SnapshotFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = ProvideDataSource(cfg, nil, metrics, zap.NewNop())
	assert.Error(t, err)
}

func TestCacheTTL(t *testing.T) {
	domain := domainconfig.DefaultDomainConfig()
	domain.EnableQueryCaching = true
	domain.SnapshotCacheTTL = 15 * time.Second
	store := domainconfig.NewStore(domain)

	ttl := cacheTTL(store)
	assert.Equal(t, 15*time.Second, ttl())

	next := domain.Clone()
	next.EnableQueryCaching = false
	require.NoError(t, store.Update(next))
	assert.Equal(t, time.Duration(0), ttl())
}

func TestProvideQueryBus(t *testing.T) {
	cfg := memoryConfig(t, twoUsers)
	cfg.EnableMetrics = true
	logger := zap.NewNop()
	metrics := observability.NewCollector("test")
	store := ProvideDomainStore(cfg)

	ds, err := ProvideDataSource(cfg, nil, metrics, logger)
	require.NoError(t, err)
	publisher := ProvideEventPublisher(cfg, nil, metrics, logger)
	cache := NewInMemoryCache(0)
	graphs := ProvideFriendshipGraphService(ds.Users, store, logger)
	set := ProvideQueryHandlers(graphs, ds.Users, ds.Posts, publisher, ProvideClock(), store, logger)

	queryBus, err := ProvideQueryBus(cfg, set, store, cache, metrics, ProvideTracer(cfg))
	require.NoError(t, err)

	result, err := querybus.Ask[*queries.FindConnectionResult](context.Background(), queryBus,
		queries.FindConnectionQuery{UserID: "A", TargetUserID: "B"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Distance)
}

func TestProvideWatcher(t *testing.T) {
	logger := zap.NewNop()
	cache := NewInMemoryCache(0)

	watcher, err := ProvideWatcher(&config.Config{}, nil, &DataSource{}, cache, logger)
	require.NoError(t, err)
	assert.Nil(t, watcher, "nothing to watch")

	cfg := memoryConfig(t, twoUsers)
	metrics := observability.NewCollector("test")
	ds, err := ProvideDataSource(cfg, nil, metrics, logger)
	require.NoError(t, err)

	watcher, err = ProvideWatcher(cfg, ProvideDomainStore(cfg), ds, cache, logger)
	require.NoError(t, err)
	require.NotNil(t, watcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	require.NoError(t, cache.Set(ctx, "stale", 1, time.Hour))
	require.NoError(t, os.WriteFile(cfg.SnapshotFile, []byte(threeUsers), 0o644))

	assert.Eventually(t, func() bool {
		users, err := ds.Users.ListUsers(ctx)
		return err == nil && len(users) == 3 && cache.Len() == 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}
