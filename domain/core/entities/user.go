package entities

import (
	"socialgraph/domain/core/valueobjects"
)

// User is a member of the social network as seen by the analytics engine:
// an identity plus the friendships it declares.
type User struct {
	ID        valueobjects.UserID   `json:"id" yaml:"id" dynamodbav:"UserID"`
	Username  string                `json:"username,omitempty" yaml:"username,omitempty" dynamodbav:"Username,omitempty"`
	FriendIDs []valueobjects.UserID `json:"friend_ids,omitempty" yaml:"friend_ids,omitempty" dynamodbav:"FriendIDs,omitempty"`
	Community string                `json:"community,omitempty" yaml:"community,omitempty" dynamodbav:"Community,omitempty"`
}

// IsFriendOf reports whether the user declares other as a friend
func (u User) IsFriendOf(other valueobjects.UserID) bool {
	for _, f := range u.FriendIDs {
		if f == other {
			return true
		}
	}
	return false
}
