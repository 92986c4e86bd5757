package handlers

import (
	"context"

	"socialgraph/application/queries"
	"socialgraph/application/services"
	"socialgraph/domain/core/valueobjects"

	"go.uber.org/zap"
)

// FindConnectionHandler answers shortest-path queries between users
type FindConnectionHandler struct {
	graphs *services.FriendshipGraphService
	logger *zap.Logger
}

// NewFindConnectionHandler creates a new connection handler
func NewFindConnectionHandler(graphs *services.FriendshipGraphService, logger *zap.Logger) *FindConnectionHandler {
	return &FindConnectionHandler{
		graphs: graphs,
		logger: logger,
	}
}

// Handle executes the connection query
func (h *FindConnectionHandler) Handle(ctx context.Context, query queries.FindConnectionQuery) (*queries.FindConnectionResult, error) {
	snapshot, err := h.graphs.Load(ctx)
	if err != nil {
		return nil, err
	}

	from := valueobjects.UserID(query.UserID)
	to := valueobjects.UserID(query.TargetUserID)
	if err := snapshot.RequireUser(from); err != nil {
		return nil, err
	}

	path := snapshot.Graph.ShortestPath(from, to)
	if path == nil {
		h.logger.Debug("No connection found",
			zap.String("userID", query.UserID),
			zap.String("targetUserID", query.TargetUserID),
		)
		return &queries.FindConnectionResult{
			Connected: false,
			Distance:  -1,
			Path:      []queries.UserSummary{},
			Message:   "No connection found",
		}, nil
	}

	return &queries.FindConnectionResult{
		Connected: true,
		Distance:  len(path) - 1,
		Path:      summarize(snapshot, path),
	}, nil
}
