package services

import (
	"context"
	"fmt"

	"socialgraph/application/ports"
	"socialgraph/domain/config"
	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/graph"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/pkg/errors"

	"go.uber.org/zap"
)

// FriendshipSnapshot is a per-request view of the friendship graph together
// with the user records it was built from
type FriendshipSnapshot struct {
	Graph *graph.Graph[valueobjects.UserID]
	Users map[valueobjects.UserID]entities.User
	Order []valueobjects.UserID
}

// User returns the record for id. Users referenced only as someone's friend
// have no record and come back with just the ID set.
func (s *FriendshipSnapshot) User(id valueobjects.UserID) entities.User {
	if u, ok := s.Users[id]; ok {
		return u
	}
	return entities.User{ID: id}
}

// Has reports whether id has a user record in the snapshot
func (s *FriendshipSnapshot) Has(id valueobjects.UserID) bool {
	_, ok := s.Users[id]
	return ok
}

// FriendshipGraphService assembles friendship snapshots from the user store
type FriendshipGraphService struct {
	users  ports.UserReader
	config config.Provider
	logger *zap.Logger
}

// NewFriendshipGraphService creates a new friendship graph service
func NewFriendshipGraphService(
	users ports.UserReader,
	config config.Provider,
	logger *zap.Logger,
) *FriendshipGraphService {
	return &FriendshipGraphService{
		users:  users,
		config: config,
		logger: logger,
	}
}

// Load reads every user and builds a fresh snapshot
func (s *FriendshipGraphService) Load(ctx context.Context) (*FriendshipSnapshot, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load users")
	}

	limit := s.config.Current().MaxUsersPerSnapshot
	if len(users) > limit {
		return nil, errors.NewUnavailableError("friendship graph").
			WithDetail("users", len(users)).
			WithDetail("limit", limit)
	}

	snapshot := NewFriendshipSnapshot(users)
	s.logger.Debug("Built friendship snapshot",
		zap.Int("users", len(snapshot.Order)),
		zap.Int("vertices", snapshot.Graph.VertexCount()),
		zap.Int("friendships", snapshot.Graph.EdgeCount()),
	)
	return snapshot, nil
}

// NewFriendshipSnapshot builds the friendship graph from user records.
// Every user becomes a vertex in input order. A friendship listed by both
// sides produces a single edge; one listed by one side only still counts.
func NewFriendshipSnapshot(users []entities.User) *FriendshipSnapshot {
	g := graph.NewWithCapacity[valueobjects.UserID](len(users))
	snapshot := &FriendshipSnapshot{
		Graph: g,
		Users: make(map[valueobjects.UserID]entities.User, len(users)),
		Order: make([]valueobjects.UserID, 0, len(users)),
	}

	for _, u := range users {
		if _, dup := snapshot.Users[u.ID]; dup {
			continue
		}
		snapshot.Users[u.ID] = u
		snapshot.Order = append(snapshot.Order, u.ID)
		g.AddVertex(u.ID)
	}

	seen := make(map[[2]valueobjects.UserID]bool)
	for _, id := range snapshot.Order {
		for _, friend := range snapshot.Users[id].FriendIDs {
			if friend.IsZero() {
				continue
			}
			key := pairKey(id, friend)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.AddEdge(id, friend)
		}
	}
	return snapshot
}

// Friendships lists every distinct friendship once, in graph order
func (s *FriendshipSnapshot) Friendships() [][2]valueobjects.UserID {
	var out [][2]valueobjects.UserID
	seen := make(map[[2]valueobjects.UserID]bool)
	for _, v := range s.Graph.Vertices() {
		for _, n := range s.Graph.Neighbors(v) {
			key := pairKey(v, n)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, [2]valueobjects.UserID{v, n})
		}
	}
	return out
}

func pairKey(a, b valueobjects.UserID) [2]valueobjects.UserID {
	if b < a {
		a, b = b, a
	}
	return [2]valueobjects.UserID{a, b}
}

// RequireUser returns a NOT_FOUND error when id has no record
func (s *FriendshipSnapshot) RequireUser(id valueobjects.UserID) error {
	if !s.Has(id) {
		return errors.NewNotFoundError(fmt.Sprintf("user %s", id))
	}
	return nil
}
