package services

import (
	"context"
	"errors"
	"testing"

	"socialgraph/domain/config"
	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	apperrors "socialgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsers struct {
	users []entities.User
	err   error
}

func (s stubUsers) GetUser(_ context.Context, id valueobjects.UserID) (*entities.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user")
}

func (s stubUsers) ListUsers(context.Context) ([]entities.User, error) {
	return s.users, s.err
}

func TestNewFriendshipSnapshot(t *testing.T) {
	snapshot := NewFriendshipSnapshot([]entities.User{
		{ID: "A", FriendIDs: valueobjects.UserIDs([]string{"B", "C"})},
		{ID: "B", FriendIDs: valueobjects.UserIDs([]string{"A"})},
		{ID: "A", Username: "duplicate"},
		{ID: "D", FriendIDs: []valueobjects.UserID{""}},
	})

	assert.Equal(t, []valueobjects.UserID{"A", "B", "D"}, snapshot.Order)
	assert.Equal(t, 4, snapshot.Graph.VertexCount(), "C is referenced only as a friend")
	assert.Equal(t, 2, snapshot.Graph.EdgeCount(), "A-B is listed by both sides once")
	assert.Equal(t, []valueobjects.UserID{"B", "C"}, snapshot.Graph.Neighbors("A"))
	assert.Empty(t, snapshot.Users["A"].Username, "first record wins")

	assert.True(t, snapshot.Has("A"))
	assert.False(t, snapshot.Has("C"))
	assert.Equal(t, entities.User{ID: "C"}, snapshot.User("C"))
	assert.True(t, apperrors.IsNotFound(snapshot.RequireUser("C")))
	assert.NoError(t, snapshot.RequireUser("D"))
}

func TestFriendshipSnapshot_Friendships(t *testing.T) {
	snapshot := NewFriendshipSnapshot([]entities.User{
		{ID: "A", FriendIDs: valueobjects.UserIDs([]string{"B", "C"})},
		{ID: "B", FriendIDs: valueobjects.UserIDs([]string{"A", "C"})},
		{ID: "C", FriendIDs: valueobjects.UserIDs([]string{"A", "B"})},
	})

	assert.Equal(t, [][2]valueobjects.UserID{{"A", "B"}, {"A", "C"}, {"B", "C"}}, snapshot.Friendships())
}

func TestFriendshipGraphService_Load(t *testing.T) {
	users := []entities.User{
		{ID: "A", FriendIDs: valueobjects.UserIDs([]string{"B"})},
		{ID: "B"},
		{ID: "C"},
	}

	t.Run("builds snapshot", func(t *testing.T) {
		svc := NewFriendshipGraphService(stubUsers{users: users}, config.NewStore(config.DefaultDomainConfig()), zap.NewNop())
		snapshot, err := svc.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, snapshot.Graph.VertexCount())
		assert.Equal(t, 1, snapshot.Graph.EdgeCount())
	})

	t.Run("rejects oversized graphs", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		cfg.MaxUsersPerSnapshot = 2
		svc := NewFriendshipGraphService(stubUsers{users: users}, config.NewStore(cfg), zap.NewNop())

		_, err := svc.Load(context.Background())
		assert.True(t, apperrors.IsUnavailable(err))
	})

	t.Run("wraps store failures", func(t *testing.T) {
		svc := NewFriendshipGraphService(stubUsers{err: errors.New("down")}, config.NewStore(config.DefaultDomainConfig()), zap.NewNop())

		_, err := svc.Load(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})

	t.Run("keeps timeouts", func(t *testing.T) {
		svc := NewFriendshipGraphService(stubUsers{err: context.DeadlineExceeded}, config.NewStore(config.DefaultDomainConfig()), zap.NewNop())

		_, err := svc.Load(context.Background())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout))
	})
}
