package ports

import (
	"context"
	"time"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/domain/events"
)

// UserReader reads friendship records from the social application's store.
// This is a port in hexagonal architecture - the engine doesn't know about the implementation
type UserReader interface {
	// GetUser retrieves a single user; a missing user yields a NOT_FOUND AppError
	GetUser(ctx context.Context, id valueobjects.UserID) (*entities.User, error)

	// ListUsers returns every user in a stable order
	ListUsers(ctx context.Context) ([]entities.User, error)
}

// PostReader reads feed candidates
type PostReader interface {
	// ListByAuthors returns the newest posts that are authored by any of
	// authorIDs or are public, newest first, at most limit
	ListByAuthors(ctx context.Context, authorIDs []valueobjects.UserID, limit int) ([]entities.Post, error)

	// ListSharedBy returns posts shared by any of userIDs, most recently shared
	// first, at most limit. SharedBy on each post lists every sharer.
	ListSharedBy(ctx context.Context, userIDs []valueobjects.UserID, limit int) ([]entities.Post, error)

	// ListPublic returns public posts, at most limit
	ListPublic(ctx context.Context, limit int) ([]entities.Post, error)
}

// EventPublisher delivers domain events to subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache stores query results for a limited time
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clock supplies the reference time used for engagement scoring
type Clock interface {
	Now() time.Time
}
