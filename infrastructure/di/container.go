package di

import (
	"context"

	"socialgraph/application/ports"
	querybus "socialgraph/application/queries/bus"
	domainconfig "socialgraph/domain/config"
	"socialgraph/infrastructure/config"
	"socialgraph/interfaces/http/rest"
	"socialgraph/pkg/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *domainconfig.Store
	Data      *DataSource
	Publisher ports.EventPublisher
	Cache     *InMemoryCache
	QueryBus  *querybus.QueryBus
	Metrics   *observability.Collector
	Tracer    *observability.Tracer
	Ready     ReadinessCheck
	Watcher   *config.Watcher
}

// Router builds the HTTP router over the container's query bus
func (c *Container) Router() *chi.Mux {
	return rest.NewRouter(c.Config, c.QueryBus, c.Metrics, c.Tracer, c.Ready, c.Logger).Setup()
}

// Close releases background resources
func (c *Container) Close() {
	c.Cache.Close()
	_ = c.Logger.Sync()
}

// RunWatcher blocks reloading watched files until ctx is done. It returns
// immediately when nothing is watched.
func (c *Container) RunWatcher(ctx context.Context) {
	if c.Watcher == nil {
		return
	}
	c.Watcher.Run(ctx)
}
