package ranking

import (
	"testing"

	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
)

func share(id, origin string) entities.Post {
	return entities.Post{ID: valueobjects.PostID(id), ShareOriginID: valueobjects.PostID(origin)}
}

func ids(raw ...string) []valueobjects.PostID {
	out := make([]valueobjects.PostID, len(raw))
	for i, r := range raw {
		out[i] = valueobjects.PostID(r)
	}
	return out
}

func TestOrderFeed(t *testing.T) {
	tests := []struct {
		name        string
		items       []entities.Post
		wantIDs     []valueobjects.PostID
		wantDropped []valueobjects.PostID
	}{
		{
			name:    "no shares keeps ranked order",
			items:   []entities.Post{share("a", ""), share("b", ""), share("c", "")},
			wantIDs: ids("a", "b", "c"),
		},
		{
			name:    "share ranked above its original moves behind it",
			items:   []entities.Post{share("s", "o"), share("x", ""), share("o", "")},
			wantIDs: ids("x", "o", "s"),
		},
		{
			name:    "origin outside the page carries no dependency",
			items:   []entities.Post{share("s", "elsewhere"), share("x", "")},
			wantIDs: ids("s", "x"),
		},
		{
			name:    "chain of shares",
			items:   []entities.Post{share("c", "b"), share("b", "a"), share("a", "")},
			wantIDs: ids("a", "b", "c"),
		},
		{
			name:        "cycle is dropped and reported",
			items:       []entities.Post{share("a", "b"), share("b", "a"), share("c", "")},
			wantIDs:     ids("c"),
			wantDropped: ids("a", "b"),
		},
		{
			name:        "self share is a cycle",
			items:       []entities.Post{share("a", "a"), share("b", "")},
			wantIDs:     ids("b"),
			wantDropped: ids("a"),
		},
		{
			name:        "dependents of a cycle are dropped too",
			items:       []entities.Post{share("a", "b"), share("b", "a"), share("d", "a")},
			wantIDs:     ids(),
			wantDropped: ids("a", "b", "d"),
		},
		{
			name:    "duplicate ids collapse",
			items:   []entities.Post{share("a", ""), share("a", ""), share("b", "a")},
			wantIDs: ids("a", "b"),
		},
		{
			name:    "empty page",
			items:   nil,
			wantIDs: ids(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderFeed(tt.items)
			assert.Equal(t, tt.wantIDs, got.IDs)
			assert.Equal(t, tt.wantDropped, got.Dropped)
		})
	}
}

func TestOrderFeed_OriginalsPrecedeShares(t *testing.T) {
	items := []entities.Post{
		share("s3", "o2"),
		share("s1", "o1"),
		share("o1", ""),
		share("s2", "o1"),
		share("o2", "s1"),
	}

	order := OrderFeed(items)
	assert.Len(t, order.IDs, len(items))

	position := make(map[valueobjects.PostID]int)
	for i, id := range order.IDs {
		position[id] = i
	}
	for _, item := range items {
		if _, onPage := position[item.ShareOriginID]; onPage {
			assert.Less(t, position[item.ShareOriginID], position[item.ID],
				"%s should follow %s", item.ID, item.ShareOriginID)
		}
	}
}

func TestApplyOrder(t *testing.T) {
	posts := []entities.Post{share("s", "o"), share("o", ""), share("z", "")}
	ordered := ApplyOrder(posts, FeedOrder{IDs: ids("o", "s", "missing")})

	assert.Len(t, ordered, 2)
	assert.Equal(t, valueobjects.PostID("o"), ordered[0].ID)
	assert.Equal(t, valueobjects.PostID("s"), ordered[1].ID)
}
