package dynamodb

import (
	"context"
	"fmt"
	"time"

	"socialgraph/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// BatchWriteItem accepts at most 25 requests per call
const batchWriteLimit = 25

// Seeder loads users and posts into the table in the layout the
// repositories read
type Seeder struct {
	client     API
	tableName  string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(client API, tableName string, logger *zap.Logger) *Seeder {
	return &Seeder{
		client:     client,
		tableName:  tableName,
		maxRetries: 5,
		backoff:    50 * time.Millisecond,
		logger:     logger,
	}
}

// Seed writes one item per user and post plus one share record per sharer.
// Shares carry the post's creation time since snapshots do not record when a
// share happened.
func (s *Seeder) Seed(ctx context.Context, users []entities.User, posts []entities.Post) (int, error) {
	var items []interface{}
	for _, u := range users {
		items = append(items, newUserItem(u))
	}
	for _, p := range posts {
		items = append(items, newPostItem(p))
		for _, sharer := range p.SharedBy {
			items = append(items, newShareItem(p.ID, sharer, p.CreatedAt))
		}
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal item: %w", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	for start := 0; start < len(requests); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(requests) {
			end = len(requests)
		}
		if err := s.writeBatch(ctx, requests[start:end]); err != nil {
			return start, err
		}
	}

	s.logger.Info("Seeded table",
		zap.String("table", s.tableName),
		zap.Int("users", len(users)),
		zap.Int("posts", len(posts)),
		zap.Int("items", len(requests)))
	return len(requests), nil
}

// writeBatch retries unprocessed items with exponential backoff
func (s *Seeder) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.tableName: batch}
	backoff := s.backoff

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to write batch: %w", err)
		}
		if len(result.UnprocessedItems[s.tableName]) == 0 {
			return nil
		}
		pending = result.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("failed to write %d items after %d retries", len(pending[s.tableName]), s.maxRetries)
}
