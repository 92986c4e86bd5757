package queries

import (
	"socialgraph/domain/core/graph"
	"socialgraph/domain/core/valueobjects"
)

// DetectCommunitiesQuery partitions the friendship graph into connected communities
type DetectCommunitiesQuery struct{}

// Validate validates the DetectCommunitiesQuery
func (q DetectCommunitiesQuery) Validate() error {
	return nil
}

// Community is one connected component of the friendship graph
type Community struct {
	ID      valueobjects.UserID `json:"id"`
	Label   string              `json:"label"`
	Size    int                 `json:"size"`
	Members []UserSummary       `json:"members"`
}

// DetectCommunitiesResult lists communities in discovery order
type DetectCommunitiesResult struct {
	Communities []Community `json:"communities"`
	UserCount   int         `json:"userCount"`
}

// GetFriendshipBackboneQuery asks for the minimum spanning forest of the
// friendship graph, where ties with more mutual friends weigh less
type GetFriendshipBackboneQuery struct{}

// Validate validates the GetFriendshipBackboneQuery
func (q GetFriendshipBackboneQuery) Validate() error {
	return nil
}

// CacheKey identifies the query parameters
func (q GetFriendshipBackboneQuery) CacheKey() string {
	return "all"
}

// GetFriendshipBackboneResult is the selected set of friendships
type GetFriendshipBackboneResult struct {
	Edges       []graph.WeightedEdge[valueobjects.UserID] `json:"edges"`
	TotalWeight float64                                   `json:"totalWeight"`
}
