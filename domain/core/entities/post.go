package entities

import (
	"time"

	"socialgraph/domain/core/valueobjects"
)

// Visibility controls who may see a post
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// Post is the rankable record handed to the analytics engine by the
// surrounding application. Counts are interaction totals at snapshot time.
type Post struct {
	ID            valueobjects.PostID   `json:"id" yaml:"id" dynamodbav:"PostID"`
	AuthorID      valueobjects.UserID   `json:"author_id" yaml:"author_id" dynamodbav:"AuthorID"`
	Content       string                `json:"content,omitempty" yaml:"content,omitempty" dynamodbav:"Content,omitempty"`
	Visibility    Visibility            `json:"visibility,omitempty" yaml:"visibility,omitempty" dynamodbav:"Visibility,omitempty"`
	Hashtags      []string              `json:"hashtags,omitempty" yaml:"hashtags,omitempty" dynamodbav:"Hashtags,omitempty"`
	CreatedAt     time.Time             `json:"created_at" yaml:"created_at" dynamodbav:"CreatedAt"`
	LikeCount     int                   `json:"like_count" yaml:"like_count" dynamodbav:"LikeCount"`
	CommentCount  int                   `json:"comment_count" yaml:"comment_count" dynamodbav:"CommentCount"`
	ShareCount    int                   `json:"share_count" yaml:"share_count" dynamodbav:"ShareCount"`
	ShareOriginID valueobjects.PostID   `json:"share_origin_id,omitempty" yaml:"share_origin_id,omitempty" dynamodbav:"ShareOriginID,omitempty"`
	SharedBy      []valueobjects.UserID `json:"shared_by,omitempty" yaml:"shared_by,omitempty" dynamodbav:"SharedBy,omitempty"`
}

// IsShare reports whether the post references an original post
func (p Post) IsShare() bool {
	return !p.ShareOriginID.IsZero()
}

// IsPublic reports whether the post is visible to everyone. An empty
// visibility is treated as public, matching the application default.
func (p Post) IsPublic() bool {
	return p.Visibility == "" || p.Visibility == VisibilityPublic
}

// IsSharedByAny reports whether any of the given users shared the post
func (p Post) IsSharedByAny(users map[valueobjects.UserID]bool) bool {
	for _, u := range p.SharedBy {
		if users[u] {
			return true
		}
	}
	return false
}

// IsVisibleTo reports whether viewer may see the post. friends is the set of
// users viewer is friends with.
func (p Post) IsVisibleTo(viewer valueobjects.UserID, friends map[valueobjects.UserID]bool) bool {
	switch {
	case p.AuthorID == viewer || p.IsPublic():
		return true
	case p.Visibility == VisibilityFriends:
		return friends[p.AuthorID]
	default:
		return false
	}
}
