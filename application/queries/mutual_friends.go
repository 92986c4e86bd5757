package queries

import "socialgraph/domain/core/valueobjects"

// GetMutualFriendsQuery asks for the friends two users have in common
type GetMutualFriendsQuery struct {
	UserID      string `validate:"required,max=128"`
	OtherUserID string `validate:"required,max=128"`
}

// Validate validates the GetMutualFriendsQuery
func (q GetMutualFriendsQuery) Validate() error {
	return validate(q)
}

// CacheKey identifies the query parameters
func (q GetMutualFriendsQuery) CacheKey() string {
	return q.UserID + "|" + q.OtherUserID
}

// UserSummary is the public view of a user embedded in results
type UserSummary struct {
	ID       valueobjects.UserID `json:"id"`
	Username string              `json:"username,omitempty"`
}

// GetMutualFriendsResult lists the shared friends
type GetMutualFriendsResult struct {
	Count         int           `json:"count"`
	MutualFriends []UserSummary `json:"mutualFriends"`
}
