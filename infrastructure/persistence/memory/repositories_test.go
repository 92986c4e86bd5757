package memory

import (
	"context"
	"testing"
	"time"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Repository {
	t.Helper()
	snapshot, err := LoadSnapshotFile("testdata/snapshot.yaml")
	require.NoError(t, err)
	return NewRepository(snapshot)
}

func postIDs(posts []entities.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID.String()
	}
	return ids
}

func TestLoadSnapshotFile(t *testing.T) {
	snapshot, err := LoadSnapshotFile("testdata/snapshot.yaml")
	require.NoError(t, err)

	require.Len(t, snapshot.Users, 5)
	assert.Equal(t, "alice", snapshot.Users[0].Username)
	assert.Equal(t, []valueobjects.UserID{"A", "C"}, snapshot.Users[1].FriendIDs)

	require.Len(t, snapshot.Posts, 4)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), snapshot.Posts[0].CreatedAt.UTC())
	assert.Equal(t, valueobjects.PostID("p1"), snapshot.Posts[2].ShareOriginID)
	assert.Equal(t, entities.VisibilityPrivate, snapshot.Posts[3].Visibility)
}

func TestParseSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ext     string
		wantErr string
	}{
		{
			name: "json",
			data: `{"users":[{"id":"A","friend_ids":["B"]},{"id":"B"}],"posts":[{"id":"p","author_id":"A"}]}`,
			ext:  ".json",
		},
		{name: "missing user id", data: "users:\n  - username: x\n", ext: ".yaml", wantErr: "has no id"},
		{name: "duplicate user", data: "users:\n  - id: A\n  - id: A\n", ext: ".yml", wantErr: "duplicate user"},
		{name: "post without author", data: "posts:\n  - id: p\n", ext: ".yaml", wantErr: "has no author"},
		{name: "malformed json", data: "{", ext: ".json", wantErr: "failed to parse JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.data), tt.ext)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRepository_Users(t *testing.T) {
	repo := loadFixture(t)
	ctx := context.Background()

	user, err := repo.GetUser(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)

	_, err = repo.GetUser(ctx, "Z")
	assert.True(t, errors.IsNotFound(err))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)
	assert.Equal(t, valueobjects.UserID("A"), users[0].ID)
}

func TestRepository_Posts(t *testing.T) {
	repo := loadFixture(t)
	ctx := context.Background()

	byAuthors, err := repo.ListByAuthors(ctx, []valueobjects.UserID{"B"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2", "p1"}, postIDs(byAuthors))

	limited, err := repo.ListByAuthors(ctx, []valueobjects.UserID{"B"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2"}, postIDs(limited))

	shared, err := repo.ListSharedBy(ctx, []valueobjects.UserID{"B", "C"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p4"}, postIDs(shared))

	public, err := repo.ListPublic(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2"}, postIDs(public))
}

func TestRepository_Replace(t *testing.T) {
	repo := loadFixture(t)
	repo.Replace(&Snapshot{Users: []entities.User{{ID: "solo"}}})

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)

	posts, err := repo.ListPublic(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := loadFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListUsers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
