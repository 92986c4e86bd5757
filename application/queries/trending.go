package queries

import "strconv"

// GetTrendingPostsQuery asks for the highest-scoring public posts.
// A zero Limit selects the configured default.
type GetTrendingPostsQuery struct {
	Limit int `validate:"gte=0,lte=1000"`
}

// Validate validates the GetTrendingPostsQuery
func (q GetTrendingPostsQuery) Validate() error {
	return validate(q)
}

// CacheKey identifies the query parameters
func (q GetTrendingPostsQuery) CacheKey() string {
	return strconv.Itoa(q.Limit)
}

// GetTrendingPostsResult lists trending posts, highest score first
type GetTrendingPostsResult struct {
	Posts []FeedPost `json:"posts"`
}
