package ranking

import (
	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/valueobjects"
)

// FeedOrder is the result of ordering a feed page.
type FeedOrder struct {
	// IDs lists post identifiers with every original ahead of its shares.
	IDs []valueobjects.PostID `json:"ids"`
	// Dropped lists posts that could not be ordered because they sit on, or
	// depend on, a share cycle. They are absent from IDs.
	Dropped []valueobjects.PostID `json:"dropped,omitempty"`
}

// OrderFeed applies Kahn's algorithm to a ranked page so that an original
// post precedes every post on the page that shares it. Posts whose origin is
// not on the page carry no dependency. Posts without an on-page origin keep
// their input (ranked) order; a share joins the queue once its origin has
// been emitted.
func OrderFeed(items []entities.Post) FeedOrder {
	ids := make([]valueobjects.PostID, 0, len(items))
	dependents := make(map[valueobjects.PostID][]valueobjects.PostID, len(items))
	inDegree := make(map[valueobjects.PostID]int, len(items))

	for _, item := range items {
		if _, seen := inDegree[item.ID]; seen {
			continue
		}
		ids = append(ids, item.ID)
		inDegree[item.ID] = 0
	}

	seen := make(map[valueobjects.PostID]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		origin := item.ShareOriginID
		if origin.IsZero() {
			continue
		}
		if _, onPage := inDegree[origin]; !onPage {
			continue
		}
		dependents[origin] = append(dependents[origin], item.ID)
		inDegree[item.ID]++
	}

	queue := make([]valueobjects.PostID, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]valueobjects.PostID, 0, len(ids))
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		order = append(order, current)
		for _, next := range dependents[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	result := FeedOrder{IDs: order}
	if len(order) < len(ids) {
		for _, id := range ids {
			if inDegree[id] > 0 {
				result.Dropped = append(result.Dropped, id)
			}
		}
	}
	return result
}

// ApplyOrder arranges posts according to order.IDs. Posts whose ID is not
// in the order are left out.
func ApplyOrder(posts []entities.Post, order FeedOrder) []entities.Post {
	byID := make(map[valueobjects.PostID]entities.Post, len(posts))
	for _, p := range posts {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	out := make([]entities.Post, 0, len(order.IDs))
	for _, id := range order.IDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
