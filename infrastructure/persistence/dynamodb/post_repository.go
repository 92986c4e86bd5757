package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchGetItem accepts at most 100 keys per call
const batchGetLimit = 100

// PostRepository implements ports.PostReader using DynamoDB
type PostRepository struct {
	client        API
	tableName     string
	gsi1IndexName string
	gsi2IndexName string
	concurrency   int
	logger        *zap.Logger
}

// NewPostRepository creates a new PostRepository. gsi1IndexName indexes posts
// by author and shares by sharer; gsi2IndexName indexes posts by visibility.
func NewPostRepository(client API, tableName, gsi1IndexName, gsi2IndexName string, logger *zap.Logger) *PostRepository {
	return &PostRepository{
		client:        client,
		tableName:     tableName,
		gsi1IndexName: gsi1IndexName,
		gsi2IndexName: gsi2IndexName,
		concurrency:   8,
		logger:        logger,
	}
}

// ListByAuthors queries each author's partition and the public partition in
// parallel and merges the newest limit posts
func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []valueobjects.UserID, limit int) ([]entities.Post, error) {
	var (
		mu     sync.Mutex
		merged []entities.Post
	)
	collect := func(posts []entities.Post) {
		mu.Lock()
		merged = append(merged, posts...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	g.Go(func() error {
		posts, err := r.queryPosts(gctx, r.gsi2IndexName, "GSI2PK", visibilityKey(entities.VisibilityPublic), limit)
		collect(posts)
		return err
	})
	for _, author := range authorIDs {
		author := author
		g.Go(func() error {
			posts, err := r.queryPosts(gctx, r.gsi1IndexName, "GSI1PK", authorKey(author), limit)
			collect(posts)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newestUnique(merged, limit), nil
}

// ListSharedBy looks up the share records of each user, then loads the shared
// posts. SharedBy on each post lists the sharers found among userIDs.
func (r *PostRepository) ListSharedBy(ctx context.Context, userIDs []valueobjects.UserID, limit int) ([]entities.Post, error) {
	var (
		mu     sync.Mutex
		shares []shareItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, user := range userIDs {
		user := user
		g.Go(func() error {
			items, err := r.queryShares(gctx, user, limit)
			mu.Lock()
			shares = append(shares, items...)
			mu.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Most recently shared first
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].SharedAt.After(shares[j].SharedAt)
	})

	order := make([]valueobjects.PostID, 0, len(shares))
	sharers := make(map[valueobjects.PostID][]valueobjects.UserID)
	for _, s := range shares {
		if _, seen := sharers[s.PostID]; !seen {
			if limit > 0 && len(order) >= limit {
				continue
			}
			order = append(order, s.PostID)
		}
		sharers[s.PostID] = append(sharers[s.PostID], s.UserID)
	}

	posts, err := r.batchGetPosts(ctx, order)
	if err != nil {
		return nil, err
	}

	out := make([]entities.Post, 0, len(order))
	for _, id := range order {
		p, ok := posts[id]
		if !ok {
			r.logger.Warn("Share references a missing post", zap.String("postID", id.String()))
			continue
		}
		p.SharedBy = sharers[id]
		out = append(out, p)
	}
	return out, nil
}

// ListPublic queries the public partition of the visibility index
func (r *PostRepository) ListPublic(ctx context.Context, limit int) ([]entities.Post, error) {
	return r.queryPosts(ctx, r.gsi2IndexName, "GSI2PK", visibilityKey(entities.VisibilityPublic), limit)
}

// queryPosts reads one index partition newest first, following pagination
// until limit posts are collected
func (r *PostRepository) queryPosts(ctx context.Context, index, keyAttr, key string, limit int) ([]entities.Post, error) {
	input, err := r.partitionQuery(index, keyAttr, key, entityPost, limit)
	if err != nil {
		return nil, err
	}

	var posts []entities.Post
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() && (limit <= 0 || len(posts) < limit) {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewDatabaseError("QueryPosts", err)
		}
		var items []postItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, errors.NewDatabaseError("QueryPosts", fmt.Errorf("failed to unmarshal posts: %w", err))
		}
		for _, item := range items {
			posts = append(posts, item.Post)
		}
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *PostRepository) queryShares(ctx context.Context, user valueobjects.UserID, limit int) ([]shareItem, error) {
	input, err := r.partitionQuery(r.gsi1IndexName, "GSI1PK", sharerKey(user), entityShare, limit)
	if err != nil {
		return nil, err
	}

	var shares []shareItem
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() && (limit <= 0 || len(shares) < limit) {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewDatabaseError("QueryShares", err)
		}
		var items []shareItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, errors.NewDatabaseError("QueryShares", fmt.Errorf("failed to unmarshal shares: %w", err))
		}
		shares = append(shares, items...)
	}
	return shares, nil
}

func (r *PostRepository) partitionQuery(index, keyAttr, key, entityType string, limit int) (*dynamodb.QueryInput, error) {
	keyCond := expression.Key(keyAttr).Equal(expression.Value(key))
	filter := expression.Name("EntityType").Equal(expression.Value(entityType))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}
	return input, nil
}

// batchGetPosts loads post metadata items in chunks, retrying unprocessed keys
func (r *PostRepository) batchGetPosts(ctx context.Context, ids []valueobjects.PostID) (map[valueobjects.PostID]entities.Post, error) {
	out := make(map[valueobjects.PostID]entities.Post, len(ids))

	for start := 0; start < len(ids); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(ids) {
			end = len(ids)
		}

		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: postPK(id)},
				"SK": &types.AttributeValueMemberS{Value: skMetadata},
			})
		}

		request := map[string]types.KeysAndAttributes{r.tableName: {Keys: keys}}
		for attempt := 0; len(request) > 0 && attempt < 5; attempt++ {
			result, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, errors.NewDatabaseError("BatchGetPosts", err)
			}

			var items []postItem
			if err := attributevalue.UnmarshalListOfMaps(result.Responses[r.tableName], &items); err != nil {
				return nil, errors.NewDatabaseError("BatchGetPosts", fmt.Errorf("failed to unmarshal posts: %w", err))
			}
			for _, item := range items {
				out[item.ID] = item.Post
			}
			request = result.UnprocessedKeys
		}
		if len(request) > 0 {
			return nil, errors.NewDatabaseError("BatchGetPosts",
				fmt.Errorf("%d keys left unprocessed", len(request[r.tableName].Keys)))
		}
	}
	return out, nil
}

// newestUnique orders posts newest first, keeps the first copy of each ID and
// cuts the result to limit
func newestUnique(posts []entities.Post, limit int) []entities.Post {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	seen := make(map[valueobjects.PostID]bool, len(posts))
	out := make([]entities.Post, 0, len(posts))
	for _, p := range posts {
		if seen[p.ID] {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
