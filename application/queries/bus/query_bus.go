package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"socialgraph/pkg/errors"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// Cacheable is implemented by queries whose results may be served from cache.
// The key must identify the query's parameters completely.
type Cacheable interface {
	CacheKey() string
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Middleware decorates a handler
type Middleware interface {
	Wrap(next QueryHandler) QueryHandler
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers   map[reflect.Type]QueryHandler
	middleware []Middleware
	mu         sync.RWMutex
}

// NewQueryBus creates a new query bus. Middleware is applied in the given
// order, the first one being outermost.
func NewQueryBus(middleware ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:   make(map[reflect.Type]QueryHandler),
		middleware: middleware,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i].Wrap(handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewValidationError(err.Error())
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, errors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query))
	}

	return handler.Handle(ctx, query)
}

// Ask dispatches query on b and asserts the result type
func Ask[R any](ctx context.Context, b *QueryBus, query Query) (R, error) {
	var zero R
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, errors.NewInternalError(fmt.Sprintf("unexpected result %T for query %T", result, query))
	}
	return typed, nil
}

// Handle adapts a typed handler function to QueryHandler
func Handle[Q Query, R any](fn func(ctx context.Context, query Q) (R, error)) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, errors.NewInternalError(fmt.Sprintf("handler received %T", query))
		}
		return fn(ctx, typed)
	})
}

// queryName returns the bare type name used as a metric and trace label
func queryName(query Query) string {
	t := reflect.TypeOf(query)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// CachingMiddleware adds caching to query handlers
type CachingMiddleware struct {
	cache    Cache
	ttl      func() time.Duration
	observer CacheObserver
}

// Cache interface for caching
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheObserver counts cache lookups
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// NewCachingMiddleware creates a new caching middleware. ttl is consulted on
// every store so configuration reloads take effect; a non-positive TTL
// disables caching.
func NewCachingMiddleware(cache Cache, ttl func() time.Duration, observer CacheObserver) *CachingMiddleware {
	return &CachingMiddleware{
		cache:    cache,
		ttl:      ttl,
		observer: observer,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		cacheable, ok := query.(Cacheable)
		ttl := m.ttl()
		if !ok || ttl <= 0 {
			return next.Handle(ctx, query)
		}

		cacheKey := queryName(query) + ":" + cacheable.CacheKey()
		if cached, found := m.cache.Get(ctx, cacheKey); found {
			if m.observer != nil {
				m.observer.CacheHit()
			}
			return cached, nil
		}
		if m.observer != nil {
			m.observer.CacheMiss()
		}

		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// A failed store only costs the next caller a recomputation
		_ = m.cache.Set(ctx, cacheKey, result, ttl)

		return result, nil
	})
}

// MetricsMiddleware adds metrics to query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// Metrics records query outcomes
type Metrics interface {
	ObserveQuery(queryType, status string, duration time.Duration)
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		start := time.Now()
		result, err := next.Handle(ctx, query)

		status := "success"
		if err != nil {
			status = "error"
			if appErr := errors.GetAppError(err); appErr != nil {
				status = string(appErr.Type)
			}
		}
		m.metrics.ObserveQuery(queryName(query), status, time.Since(start))

		return result, err
	})
}

// TracingMiddleware opens a trace subsegment per query
type TracingMiddleware struct {
	tracer Tracer
}

// Tracer runs fn inside a named trace span
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
	AddAnnotation(ctx context.Context, key string, value string)
}

// NewTracingMiddleware creates a new tracing middleware
func NewTracingMiddleware(tracer Tracer) *TracingMiddleware {
	return &TracingMiddleware{tracer: tracer}
}

// Wrap wraps a query handler with a trace subsegment
func (m *TracingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		var result interface{}
		name := queryName(query)
		err := m.tracer.TraceFunction(ctx, "query."+name, func(ctx context.Context) error {
			m.tracer.AddAnnotation(ctx, "query", name)
			var err error
			result, err = next.Handle(ctx, query)
			return err
		})
		return result, err
	})
}
