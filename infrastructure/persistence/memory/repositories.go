// Package memory serves users and posts from an in-process snapshot. It backs
// the CLI, local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/pkg/errors"
)

// Repository implements ports.UserReader and ports.PostReader over a snapshot
type Repository struct {
	mu    sync.RWMutex
	users []entities.User
	index map[valueobjects.UserID]int
	posts []entities.Post
}

// NewRepository creates a repository holding snapshot
func NewRepository(snapshot *Snapshot) *Repository {
	r := &Repository{}
	r.Replace(snapshot)
	return r
}

// Replace swaps the served snapshot. Readers in flight keep the slices they
// already hold.
func (r *Repository) Replace(snapshot *Snapshot) {
	if snapshot == nil {
		snapshot = &Snapshot{}
	}
	users := append([]entities.User(nil), snapshot.Users...)
	index := make(map[valueobjects.UserID]int, len(users))
	for i, u := range users {
		index[u.ID] = i
	}

	// Newest first, matching how the stored indexes are read
	posts := append([]entities.Post(nil), snapshot.Posts...)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	r.mu.Lock()
	r.users = users
	r.index = index
	r.posts = posts
	r.mu.Unlock()
}

// GetUser retrieves a single user
func (r *Repository) GetUser(ctx context.Context, id valueobjects.UserID) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user %s", id))
	}
	u := r.users[i]
	return &u, nil
}

// ListUsers returns every user in snapshot order
func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]entities.User(nil), r.users...), nil
}

// ListByAuthors returns posts authored by authorIDs or public, newest first
func (r *Repository) ListByAuthors(ctx context.Context, authorIDs []valueobjects.UserID, limit int) ([]entities.Post, error) {
	authors := toSet(authorIDs)
	return r.filter(ctx, limit, func(p entities.Post) bool {
		return authors[p.AuthorID] || p.IsPublic()
	})
}

// ListSharedBy returns posts shared by any of userIDs, newest first
func (r *Repository) ListSharedBy(ctx context.Context, userIDs []valueobjects.UserID, limit int) ([]entities.Post, error) {
	sharers := toSet(userIDs)
	return r.filter(ctx, limit, func(p entities.Post) bool {
		return p.IsSharedByAny(sharers)
	})
}

// ListPublic returns public posts, newest first
func (r *Repository) ListPublic(ctx context.Context, limit int) ([]entities.Post, error) {
	return r.filter(ctx, limit, entities.Post.IsPublic)
}

func (r *Repository) filter(ctx context.Context, limit int, keep func(entities.Post) bool) ([]entities.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Post, 0)
	for _, p := range r.posts {
		if limit > 0 && len(out) >= limit {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func toSet(ids []valueobjects.UserID) map[valueobjects.UserID]bool {
	set := make(map[valueobjects.UserID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
