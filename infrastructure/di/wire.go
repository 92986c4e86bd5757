//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"socialgraph/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainStore,
	ProvideMetrics,
	ProvideTracer,
	ProvideClock,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideDataSource,
	ProvideUserReader,
	ProvidePostReader,
	ProvideReadinessCheck,
	ProvideEventPublisher,
	ProvideInMemoryCache,
	ProvideFriendshipGraphService,
	ProvideQueryHandlers,
	ProvideQueryBus,
	ProvideWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
