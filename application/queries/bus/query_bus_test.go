package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "socialgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct {
	Value string
}

func (q echoQuery) Validate() error {
	if q.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

func (q echoQuery) CacheKey() string { return q.Value }

type plainQuery struct{}

func (plainQuery) Validate() error { return nil }

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]interface{})
	}
	c.items[key] = value
	return nil
}

type countingObserver struct{ hits, misses int }

func (o *countingObserver) CacheHit()  { o.hits++ }
func (o *countingObserver) CacheMiss() { o.misses++ }

type recordedQuery struct {
	name   string
	status string
}

type recordingMetrics struct{ observed []recordedQuery }

func (m *recordingMetrics) ObserveQuery(queryType, status string, _ time.Duration) {
	m.observed = append(m.observed, recordedQuery{queryType, status})
}

type recordingTracer struct {
	names       []string
	annotations []string
}

func (t *recordingTracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	t.names = append(t.names, name)
	return fn(ctx)
}

func (t *recordingTracer) AddAnnotation(_ context.Context, key string, value string) {
	t.annotations = append(t.annotations, key+"="+value)
}

func echoHandler(calls *int) QueryHandler {
	return Handle(func(_ context.Context, q echoQuery) (string, error) {
		*calls++
		return "echo:" + q.Value, nil
	})
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	calls := 0
	require.NoError(t, b.Register(echoQuery{}, echoHandler(&calls)))

	got, err := Ask[string](context.Background(), b, echoQuery{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", got)
	assert.Equal(t, 1, calls)
}

func TestQueryBus_ValidationRunsFirst(t *testing.T) {
	b := NewQueryBus()
	calls := 0
	require.NoError(t, b.Register(echoQuery{}, echoHandler(&calls)))

	_, err := b.Ask(context.Background(), echoQuery{})
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, calls)
}

func TestQueryBus_UnregisteredQuery(t *testing.T) {
	_, err := NewQueryBus().Ask(context.Background(), plainQuery{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestQueryBus_DuplicateRegistration(t *testing.T) {
	b := NewQueryBus()
	calls := 0
	require.NoError(t, b.Register(echoQuery{}, echoHandler(&calls)))
	assert.Error(t, b.Register(echoQuery{}, echoHandler(&calls)))
}

func TestAsk_WrongResultType(t *testing.T) {
	b := NewQueryBus()
	calls := 0
	require.NoError(t, b.Register(echoQuery{}, echoHandler(&calls)))

	_, err := Ask[int](context.Background(), b, echoQuery{Value: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestCachingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		ttl       time.Duration
		wantCalls int
		wantHits  int
	}{
		{"caches within ttl", time.Minute, 1, 2},
		{"disabled by zero ttl", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &countingObserver{}
			b := NewQueryBus(NewCachingMiddleware(&mapCache{}, func() time.Duration { return tt.ttl }, observer))
			calls := 0
			require.NoError(t, b.Register(echoQuery{}, echoHandler(&calls)))

			for i := 0; i < 3; i++ {
				got, err := Ask[string](context.Background(), b, echoQuery{Value: "a"})
				require.NoError(t, err)
				assert.Equal(t, "echo:a", got)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantHits, observer.hits)
		})
	}
}

func TestCachingMiddleware_KeysByParameters(t *testing.T) {
	b := NewQueryBus(NewCachingMiddleware(&mapCache{}, func() time.Duration { return time.Minute }, nil))
	calls := 0
	require.NoError(t, b.Register(echoQuery{}, echoHandler(&calls)))

	_, _ = b.Ask(context.Background(), echoQuery{Value: "a"})
	got, err := Ask[string](context.Background(), b, echoQuery{Value: "b"})
	require.NoError(t, err)
	assert.Equal(t, "echo:b", got)
	assert.Equal(t, 2, calls)
}

func TestCachingMiddleware_SkipsNonCacheable(t *testing.T) {
	b := NewQueryBus(NewCachingMiddleware(&mapCache{}, func() time.Duration { return time.Minute }, nil))
	calls := 0
	require.NoError(t, b.Register(plainQuery{}, Handle(func(context.Context, plainQuery) (int, error) {
		calls++
		return calls, nil
	})))

	_, _ = b.Ask(context.Background(), plainQuery{})
	_, _ = b.Ask(context.Background(), plainQuery{})
	assert.Equal(t, 2, calls)
}

func TestMetricsAndTracingMiddleware(t *testing.T) {
	metrics := &recordingMetrics{}
	tracer := &recordingTracer{}
	b := NewQueryBus(NewMetricsMiddleware(metrics), NewTracingMiddleware(tracer))

	require.NoError(t, b.Register(echoQuery{}, Handle(func(_ context.Context, q echoQuery) (string, error) {
		if q.Value == "missing" {
			return "", apperrors.NewNotFoundError("user missing")
		}
		return q.Value, nil
	})))

	_, err := b.Ask(context.Background(), echoQuery{Value: "ok"})
	require.NoError(t, err)
	_, err = b.Ask(context.Background(), echoQuery{Value: "missing"})
	require.Error(t, err)

	assert.Equal(t, []recordedQuery{
		{"echoQuery", "success"},
		{"echoQuery", "NOT_FOUND"},
	}, metrics.observed)
	assert.Equal(t, []string{"query.echoQuery", "query.echoQuery"}, tracer.names)
	assert.Equal(t, []string{"query=echoQuery", "query=echoQuery"}, tracer.annotations)
}
