// Package resilient guards the snapshot readers with circuit breakers so a
// failing store is rejected fast instead of stalling every query.
package resilient

import (
	"context"
	"time"

	"socialgraph/application/ports"
	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// StateObserver receives breaker state changes, typically a metrics gauge
type StateObserver interface {
	SetBreakerState(name string, state int)
}

// Config holds configuration for a circuit breaker
type Config struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns a default configuration for circuit breaker
func DefaultConfig() Config {
	return Config{
		MaxRequests:      5,                // Allow more requests in half-open state
		Interval:         30 * time.Second, // Longer interval before resetting stats
		Timeout:          60 * time.Second, // Longer timeout before trying half-open
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

func newBreaker(name string, cfg Config, logger *zap.Logger, observer StateObserver) *gobreaker.CircuitBreaker {
	if observer != nil {
		observer.SetBreakerState(name, int(gobreaker.StateClosed))
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip if we have enough requests to make a decision
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if observer != nil {
				observer.SetBreakerState(name, int(to))
			}
		},
		// Caller mistakes say nothing about the health of the store
		IsSuccessful: func(err error) bool {
			return err == nil || errors.IsNotFound(err) || errors.IsValidation(err)
		},
	})
}

// execute runs fn through the breaker and maps rejections to UNAVAILABLE
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return zero, errors.NewUnavailableError(cb.Name()).WithCause(err)
		}
		return zero, err
	}
	return result.(T), nil
}

// UserReader decorates a ports.UserReader with a circuit breaker
type UserReader struct {
	next ports.UserReader
	cb   *gobreaker.CircuitBreaker
}

// NewUserReader wraps next in a breaker named "user-store"
func NewUserReader(next ports.UserReader, cfg Config, logger *zap.Logger, observer StateObserver) *UserReader {
	return &UserReader{next: next, cb: newBreaker("user-store", cfg, logger, observer)}
}

func (r *UserReader) GetUser(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	return execute(r.cb, func() (*entities.User, error) { return r.next.GetUser(ctx, id) })
}

func (r *UserReader) ListUsers(ctx context.Context) ([]entities.User, error) {
	return execute(r.cb, func() ([]entities.User, error) { return r.next.ListUsers(ctx) })
}

// PostReader decorates a ports.PostReader with a circuit breaker
type PostReader struct {
	next ports.PostReader
	cb   *gobreaker.CircuitBreaker
}

// NewPostReader wraps next in a breaker named "post-store"
func NewPostReader(next ports.PostReader, cfg Config, logger *zap.Logger, observer StateObserver) *PostReader {
	return &PostReader{next: next, cb: newBreaker("post-store", cfg, logger, observer)}
}

func (r *PostReader) ListByAuthors(ctx context.Context, authorIDs []valueobjects.UserID, limit int) ([]entities.Post, error) {
	return execute(r.cb, func() ([]entities.Post, error) { return r.next.ListByAuthors(ctx, authorIDs, limit) })
}

func (r *PostReader) ListSharedBy(ctx context.Context, userIDs []valueobjects.UserID, limit int) ([]entities.Post, error) {
	return execute(r.cb, func() ([]entities.Post, error) { return r.next.ListSharedBy(ctx, userIDs, limit) })
}

func (r *PostReader) ListPublic(ctx context.Context, limit int) ([]entities.Post, error) {
	return execute(r.cb, func() ([]entities.Post, error) { return r.next.ListPublic(ctx, limit) })
}
