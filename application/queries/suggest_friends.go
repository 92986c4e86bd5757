package queries

import "fmt"

// SuggestFriendsQuery asks for friend-of-friend suggestions for a user.
// A zero Limit selects the configured default.
type SuggestFriendsQuery struct {
	UserID string `validate:"required,max=128"`
	Limit  int    `validate:"gte=0,lte=1000"`
}

// Validate validates the SuggestFriendsQuery
func (q SuggestFriendsQuery) Validate() error {
	return validate(q)
}

// CacheKey identifies the query parameters
func (q SuggestFriendsQuery) CacheKey() string {
	return fmt.Sprintf("%s|%d", q.UserID, q.Limit)
}

// FriendSuggestion is one suggested user
type FriendSuggestion struct {
	User          UserSummary   `json:"user"`
	MutualCount   int           `json:"mutualCount"`
	MutualFriends []UserSummary `json:"mutualFriends"`
}

// SuggestFriendsResult holds suggestions, strongest first
type SuggestFriendsResult struct {
	Suggestions []FriendSuggestion `json:"suggestions"`
}
