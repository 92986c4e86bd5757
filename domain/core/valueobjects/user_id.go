package valueobjects

import (
	"errors"
	"strings"
)

// UserID identifies a member of the social network. It is an opaque handle:
// the analytics engine only compares it for equality.
type UserID string

// PostID identifies a post.
type PostID string

// NewUserIDFromString creates a UserID from an existing string
func NewUserIDFromString(id string) (UserID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("user ID cannot be empty")
	}
	return UserID(id), nil
}

// NewPostIDFromString creates a PostID from an existing string
func NewPostIDFromString(id string) (PostID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("post ID cannot be empty")
	}
	return PostID(id), nil
}

// String returns the string representation of the UserID
func (id UserID) String() string {
	return string(id)
}

// IsZero checks if the UserID is the zero value
func (id UserID) IsZero() bool {
	return id == ""
}

// String returns the string representation of the PostID
func (id PostID) String() string {
	return string(id)
}

// IsZero checks if the PostID is the zero value
func (id PostID) IsZero() bool {
	return id == ""
}

// UserIDs converts raw identifiers, skipping empty ones.
func UserIDs(raw []string) []UserID {
	out := make([]UserID, 0, len(raw))
	for _, r := range raw {
		if id, err := NewUserIDFromString(r); err == nil {
			out = append(out, id)
		}
	}
	return out
}
