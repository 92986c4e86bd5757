package handlers

import (
	"context"
	"sort"

	"socialgraph/application/queries"
	"socialgraph/application/services"
	"socialgraph/domain/config"
	"socialgraph/domain/core/valueobjects"

	"go.uber.org/zap"
)

// SuggestFriendsHandler proposes friends-of-friends ranked by overlap
type SuggestFriendsHandler struct {
	graphs *services.FriendshipGraphService
	config config.Provider
	logger *zap.Logger
}

// NewSuggestFriendsHandler creates a new suggestion handler
func NewSuggestFriendsHandler(
	graphs *services.FriendshipGraphService,
	config config.Provider,
	logger *zap.Logger,
) *SuggestFriendsHandler {
	return &SuggestFriendsHandler{
		graphs: graphs,
		config: config,
		logger: logger,
	}
}

// Handle executes the suggestion query. Every registered user that is
// neither the requester nor already a friend is a candidate; candidates
// without a mutual friend are skipped. Equal counts keep registration order.
func (h *SuggestFriendsHandler) Handle(ctx context.Context, query queries.SuggestFriendsQuery) (*queries.SuggestFriendsResult, error) {
	cfg := h.config.Current()
	limit := cfg.ClampSuggestionLimit(query.Limit)

	snapshot, err := h.graphs.Load(ctx)
	if err != nil {
		return nil, err
	}

	user := valueobjects.UserID(query.UserID)
	if err := snapshot.RequireUser(user); err != nil {
		return nil, err
	}

	friends := make(map[valueobjects.UserID]bool)
	for _, f := range snapshot.Graph.Neighbors(user) {
		friends[f] = true
	}

	suggestions := make([]queries.FriendSuggestion, 0)
	for _, candidate := range snapshot.Order {
		if candidate == user || friends[candidate] {
			continue
		}
		mutual := snapshot.Graph.MutualNeighbors(user, candidate)
		if len(mutual) == 0 {
			continue
		}
		preview := mutual
		if len(preview) > cfg.MutualPreviewSize {
			preview = preview[:cfg.MutualPreviewSize]
		}
		suggestions = append(suggestions, queries.FriendSuggestion{
			User:          summary(snapshot, candidate),
			MutualCount:   len(mutual),
			MutualFriends: summarize(snapshot, preview),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MutualCount > suggestions[j].MutualCount
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	h.logger.Debug("Computed friend suggestions",
		zap.String("userID", query.UserID),
		zap.Int("count", len(suggestions)),
	)
	return &queries.SuggestFriendsResult{Suggestions: suggestions}, nil
}
