package handlers

import (
	"context"

	"socialgraph/application/queries"
	"socialgraph/application/services"
	"socialgraph/domain/core/valueobjects"

	"go.uber.org/zap"
)

// GetMutualFriendsHandler lists the friends two users share
type GetMutualFriendsHandler struct {
	graphs *services.FriendshipGraphService
	logger *zap.Logger
}

// NewGetMutualFriendsHandler creates a new mutual friends handler
func NewGetMutualFriendsHandler(graphs *services.FriendshipGraphService, logger *zap.Logger) *GetMutualFriendsHandler {
	return &GetMutualFriendsHandler{
		graphs: graphs,
		logger: logger,
	}
}

// Handle executes the mutual friends query
func (h *GetMutualFriendsHandler) Handle(ctx context.Context, query queries.GetMutualFriendsQuery) (*queries.GetMutualFriendsResult, error) {
	snapshot, err := h.graphs.Load(ctx)
	if err != nil {
		return nil, err
	}

	user := valueobjects.UserID(query.UserID)
	if err := snapshot.RequireUser(user); err != nil {
		return nil, err
	}

	mutual := snapshot.Graph.MutualNeighbors(user, valueobjects.UserID(query.OtherUserID))
	return &queries.GetMutualFriendsResult{
		Count:         len(mutual),
		MutualFriends: summarize(snapshot, mutual),
	}, nil
}
