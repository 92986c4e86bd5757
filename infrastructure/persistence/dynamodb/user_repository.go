package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// UserRepository implements ports.UserReader using DynamoDB
type UserRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client API, tableName string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// GetUser retrieves a user profile by ID
func (r *UserRepository) GetUser(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
	})
	if err != nil {
		return nil, errors.NewDatabaseError("GetUser", err)
	}
	if len(result.Item) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user %s", id))
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, errors.NewDatabaseError("GetUser", fmt.Errorf("failed to unmarshal user: %w", err))
	}
	return &item.User, nil
}

// ListUsers scans every user profile. Results are ordered by ID since scan
// order is unspecified.
func (r *UserRepository) ListUsers(ctx context.Context) ([]entities.User, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityUser))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var users []entities.User
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewDatabaseError("ListUsers", err)
		}

		var items []userItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, errors.NewDatabaseError("ListUsers", fmt.Errorf("failed to unmarshal users: %w", err))
		}
		for _, item := range items {
			users = append(users, item.User)
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	r.logger.Debug("Scanned users", zap.Int("count", len(users)))
	return users, nil
}
