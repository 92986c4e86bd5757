package queries

import (
	"fmt"
	"time"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
)

// GetRankedFeedQuery asks for one page of a user's engagement-ranked feed.
// Zero Page and Limit select the first page and the configured page size.
type GetRankedFeedQuery struct {
	UserID string `validate:"required,max=128"`
	Page   int    `validate:"gte=0,lte=10000"`
	Limit  int    `validate:"gte=0,lte=1000"`
}

// Validate validates the GetRankedFeedQuery
func (q GetRankedFeedQuery) Validate() error {
	return validate(q)
}

// CacheKey identifies the query parameters
func (q GetRankedFeedQuery) CacheKey() string {
	return fmt.Sprintf("%s|%d|%d", q.UserID, q.Page, q.Limit)
}

// FeedPost is a ranked post as returned to clients
type FeedPost struct {
	entities.Post
	Score    float64 `json:"score"`
	IsShared bool    `json:"isShared"`
}

// GetRankedFeedResult is one page of the feed
type GetRankedFeedResult struct {
	Posts            []FeedPost            `json:"posts"`
	Page             int                   `json:"page"`
	Limit            int                   `json:"limit"`
	HasMore          bool                  `json:"hasMore"`
	DroppedFromOrder []valueobjects.PostID `json:"droppedFromOrder,omitempty"`
	GeneratedAt      time.Time             `json:"generatedAt"`
}
