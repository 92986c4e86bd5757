package dynamodb

import (
	"context"
	"fmt"
	"time"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Key layout of the single-table design:
//
//	user   PK=USER#<id>  SK=PROFILE
//	post   PK=POST#<id>  SK=METADATA  GSI1=AUTHOR#<author>/<created>  GSI2=VISIBILITY#<vis>/<created>
//	share  PK=POST#<id>  SK=SHARE#<user>  GSI1=SHARER#<user>/<shared>
const (
	entityUser  = "USER"
	entityPost  = "POST"
	entityShare = "SHARE"

	skProfile  = "PROFILE"
	skMetadata = "METADATA"
)

// API is the subset of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

func userPK(id valueobjects.UserID) string { return "USER#" + id.String() }
func postPK(id valueobjects.PostID) string { return "POST#" + id.String() }
func authorKey(id valueobjects.UserID) string {
	return "AUTHOR#" + id.String()
}
func sharerKey(id valueobjects.UserID) string {
	return "SHARER#" + id.String()
}
func visibilityKey(v entities.Visibility) string {
	if v == "" {
		v = entities.VisibilityPublic
	}
	return fmt.Sprintf("VISIBILITY#%s", v)
}

// userItem represents the DynamoDB item structure for a user
type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	entities.User
}

func newUserItem(u entities.User) userItem {
	return userItem{
		PK:         userPK(u.ID),
		SK:         skProfile,
		EntityType: entityUser,
		User:       u,
	}
}

// postItem represents the DynamoDB item structure for a post
type postItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	entities.Post
}

func newPostItem(p entities.Post) postItem {
	created := p.CreatedAt.UTC().Format(time.RFC3339Nano)
	p.SharedBy = nil
	return postItem{
		PK:         postPK(p.ID),
		SK:         skMetadata,
		GSI1PK:     authorKey(p.AuthorID),
		GSI1SK:     created,
		GSI2PK:     visibilityKey(p.Visibility),
		GSI2SK:     created,
		EntityType: entityPost,
		Post:       p,
	}
}

// shareItem records that a user shared a post
type shareItem struct {
	PK         string              `dynamodbav:"PK"`
	SK         string              `dynamodbav:"SK"`
	GSI1PK     string              `dynamodbav:"GSI1PK"`
	GSI1SK     string              `dynamodbav:"GSI1SK"`
	EntityType string              `dynamodbav:"EntityType"`
	PostID     valueobjects.PostID `dynamodbav:"PostID"`
	UserID     valueobjects.UserID `dynamodbav:"UserID"`
	SharedAt   time.Time           `dynamodbav:"SharedAt"`
}

func newShareItem(postID valueobjects.PostID, userID valueobjects.UserID, sharedAt time.Time) shareItem {
	return shareItem{
		PK:         postPK(postID),
		SK:         "SHARE#" + userID.String(),
		GSI1PK:     sharerKey(userID),
		GSI1SK:     sharedAt.UTC().Format(time.RFC3339Nano),
		EntityType: entityShare,
		PostID:     postID,
		UserID:     userID,
		SharedAt:   sharedAt,
	}
}
