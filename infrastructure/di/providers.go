package di

import (
	"context"
	"fmt"
	"time"

	"socialgraph/application/ports"
	querybus "socialgraph/application/queries/bus"
	queries_handlers "socialgraph/application/queries/handlers"
	"socialgraph/application/services"
	domainconfig "socialgraph/domain/config"
	"socialgraph/infrastructure/config"
	"socialgraph/infrastructure/messaging"
	"socialgraph/infrastructure/messaging/eventbridge"
	"socialgraph/infrastructure/persistence/dynamodb"
	"socialgraph/infrastructure/persistence/memory"
	"socialgraph/infrastructure/persistence/resilient"
	"socialgraph/pkg/errors"
	"socialgraph/pkg/observability"
	"socialgraph/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
)

const (
	metricsNamespace = "socialgraph"
	retainedEvents   = 100
	cacheSweep       = time.Minute
	readinessProbeID = "__readiness__"
)

// DataSource holds the readers selected by DATA_SOURCE. Snapshot is set
// only when the memory source is in use.
type DataSource struct {
	Users    ports.UserReader
	Posts    ports.PostReader
	Snapshot *memory.Repository
}

// ReadinessCheck reports whether the data source can serve requests
type ReadinessCheck func(ctx context.Context) error

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideDomainStore creates the live domain configuration store
func ProvideDomainStore(cfg *config.Config) *domainconfig.Store {
	return domainconfig.NewStore(cfg.Domain)
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	name := metricsNamespace
	if cfg.LambdaFunctionName != "" {
		name = cfg.LambdaFunctionName
	}
	return observability.NewTracer(name)
}

// ProvideClock returns the wall clock
func ProvideClock() ports.Clock {
	return utils.SystemClock{}
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideDataSource builds the readers for the configured data source and
// wraps them in circuit breakers
func ProvideDataSource(
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*DataSource, error) {
	var (
		users    ports.UserReader
		posts    ports.PostReader
		snapshot *memory.Repository
	)

	switch cfg.DataSource {
	case config.DataSourceMemory:
		loaded, err := memory.LoadSnapshotFile(cfg.SnapshotFile)
		if err != nil {
			return nil, err
		}
		snapshot = memory.NewRepository(loaded)
		users, posts = snapshot, snapshot
		logger.Info("Using in-memory snapshot",
			zap.String("file", cfg.SnapshotFile),
			zap.Int("users", len(loaded.Users)),
			zap.Int("posts", len(loaded.Posts)),
		)
	case config.DataSourceDynamoDB:
		users = dynamodb.NewUserRepository(client, cfg.DynamoDBTable, logger)
		posts = dynamodb.NewPostRepository(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
		logger.Info("Using DynamoDB", zap.String("table", cfg.DynamoDBTable))
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}

	breakerCfg := resilient.DefaultConfig()
	return &DataSource{
		Users:    resilient.NewUserReader(users, breakerCfg, logger, metrics),
		Posts:    resilient.NewPostReader(posts, breakerCfg, logger, metrics),
		Snapshot: snapshot,
	}, nil
}

// ProvideUserReader exposes the user reader of the data source
func ProvideUserReader(ds *DataSource) ports.UserReader {
	return ds.Users
}

// ProvidePostReader exposes the post reader of the data source
func ProvidePostReader(ds *DataSource) ports.PostReader {
	return ds.Posts
}

// ProvideReadinessCheck probes the user store with a lookup that is expected
// to miss
func ProvideReadinessCheck(users ports.UserReader) ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := users.GetUser(ctx, readinessProbeID)
		if err == nil || errors.IsNotFound(err) {
			return nil
		}
		return err
	}
}

// ProvideEventPublisher selects EventBridge when a bus is configured and the
// log publisher otherwise
func ProvideEventPublisher(
	cfg *config.Config,
	client *awseventbridge.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) ports.EventPublisher {
	var publisher ports.EventPublisher
	if cfg.EventBusName != "" {
		publisher = eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	} else {
		logger.Info("EVENT_BUS_NAME not set, domain events are logged only")
		publisher = messaging.NewLogPublisher(logger, retainedEvents)
	}
	return messaging.NewInstrumentedPublisher(publisher, metrics)
}

// ProvideInMemoryCache creates the query result cache
func ProvideInMemoryCache() *InMemoryCache {
	return NewInMemoryCache(cacheSweep)
}

// ProvideFriendshipGraphService creates the snapshot builder shared by the
// graph queries
func ProvideFriendshipGraphService(
	users ports.UserReader,
	store *domainconfig.Store,
	logger *zap.Logger,
) *services.FriendshipGraphService {
	return services.NewFriendshipGraphService(users, store, logger)
}

// ProvideQueryHandlers creates every query handler
func ProvideQueryHandlers(
	graphs *services.FriendshipGraphService,
	users ports.UserReader,
	posts ports.PostReader,
	publisher ports.EventPublisher,
	clock ports.Clock,
	store *domainconfig.Store,
	logger *zap.Logger,
) *queries_handlers.Set {
	return &queries_handlers.Set{
		FindConnection:     queries_handlers.NewFindConnectionHandler(graphs, logger),
		MutualFriends:      queries_handlers.NewGetMutualFriendsHandler(graphs, logger),
		SuggestFriends:     queries_handlers.NewSuggestFriendsHandler(graphs, store, logger),
		DetectCommunities:  queries_handlers.NewDetectCommunitiesHandler(graphs, publisher, clock, store, logger),
		FriendshipBackbone: queries_handlers.NewGetFriendshipBackboneHandler(graphs, logger),
		RankedFeed:         queries_handlers.NewGetRankedFeedHandler(users, posts, publisher, clock, store, logger),
		TrendingPosts:      queries_handlers.NewGetTrendingPostsHandler(posts, clock, store, logger),
	}
}

// ProvideQueryBus creates a query bus with registered handlers. Middleware
// order is metrics, tracing, caching, so cache hits are still counted and
// traced.
func ProvideQueryBus(
	cfg *config.Config,
	set *queries_handlers.Set,
	store *domainconfig.Store,
	cache *InMemoryCache,
	metrics *observability.Collector,
	tracer *observability.Tracer,
) (*querybus.QueryBus, error) {
	middleware := []querybus.Middleware{}
	if cfg.EnableMetrics {
		middleware = append(middleware, querybus.NewMetricsMiddleware(metrics))
	}
	if cfg.EnableTracing {
		middleware = append(middleware, querybus.NewTracingMiddleware(tracer))
	}
	middleware = append(middleware, querybus.NewCachingMiddleware(cache, cacheTTL(store), metrics))

	queryBus := querybus.NewQueryBus(middleware...)
	if err := set.Register(queryBus); err != nil {
		return nil, err
	}
	return queryBus, nil
}

func cacheTTL(store *domainconfig.Store) func() time.Duration {
	return func() time.Duration {
		current := store.Current()
		if !current.EnableQueryCaching {
			return 0
		}
		return current.SnapshotCacheTTL
	}
}

// ProvideWatcher registers reload hooks for CONFIG_FILE and, with the memory
// source, SNAPSHOT_FILE. It returns nil when there is nothing to watch.
func ProvideWatcher(
	cfg *config.Config,
	store *domainconfig.Store,
	ds *DataSource,
	cache *InMemoryCache,
	logger *zap.Logger,
) (*config.Watcher, error) {
	if cfg.ConfigFile == "" && ds.Snapshot == nil {
		return nil, nil
	}

	watcher, err := config.NewWatcher(logger)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		err := watcher.Add(cfg.ConfigFile, func() error {
			next, err := config.LoadDomainConfig(cfg.ConfigFile, cfg.Environment)
			if err != nil {
				return err
			}
			if err := store.Update(next); err != nil {
				return err
			}
			return cache.Clear(context.Background())
		})
		if err != nil {
			return nil, err
		}
	}

	if ds.Snapshot != nil {
		err := watcher.Add(cfg.SnapshotFile, func() error {
			next, err := memory.LoadSnapshotFile(cfg.SnapshotFile)
			if err != nil {
				return err
			}
			ds.Snapshot.Replace(next)
			logger.Info("Snapshot reloaded",
				zap.Int("users", len(next.Users)),
				zap.Int("posts", len(next.Posts)),
			)
			return cache.Clear(context.Background())
		})
		if err != nil {
			return nil, err
		}
	}

	return watcher, nil
}
