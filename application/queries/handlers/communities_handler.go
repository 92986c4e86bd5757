package handlers

import (
	"context"
	"fmt"

	"socialgraph/application/ports"
	"socialgraph/application/queries"
	"socialgraph/application/services"
	"socialgraph/domain/config"
	"socialgraph/domain/core/graph"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/domain/events"

	"go.uber.org/zap"
)

// DetectCommunitiesHandler partitions the friendship graph and announces the
// resulting assignments
type DetectCommunitiesHandler struct {
	graphs    *services.FriendshipGraphService
	publisher ports.EventPublisher
	clock     ports.Clock
	config    config.Provider
	logger    *zap.Logger
}

// NewDetectCommunitiesHandler creates a new community detection handler
func NewDetectCommunitiesHandler(
	graphs *services.FriendshipGraphService,
	publisher ports.EventPublisher,
	clock ports.Clock,
	config config.Provider,
	logger *zap.Logger,
) *DetectCommunitiesHandler {
	return &DetectCommunitiesHandler{
		graphs:    graphs,
		publisher: publisher,
		clock:     clock,
		config:    config,
		logger:    logger,
	}
}

// Handle executes the community detection query. A failed event publication
// is logged and does not fail the query.
func (h *DetectCommunitiesHandler) Handle(ctx context.Context, _ queries.DetectCommunitiesQuery) (*queries.DetectCommunitiesResult, error) {
	snapshot, err := h.graphs.Load(ctx)
	if err != nil {
		return nil, err
	}

	components := snapshot.Graph.ConnectedComponents()
	result := &queries.DetectCommunitiesResult{
		Communities: make([]queries.Community, len(components)),
		UserCount:   snapshot.Graph.VertexCount(),
	}
	assignments := make([]events.CommunityAssignment, len(components))

	for i, members := range components {
		label := fmt.Sprintf("community_%d", i)
		result.Communities[i] = queries.Community{
			ID:      members[0],
			Label:   label,
			Size:    len(members),
			Members: summarize(snapshot, members),
		}
		assignments[i] = events.CommunityAssignment{
			CommunityID: members[0].String(),
			Label:       label,
			Members:     members,
		}
	}

	if h.config.Current().EnableDomainEvents && len(assignments) > 0 {
		event := events.NewCommunitiesDetected(assignments, h.clock.Now())
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("Failed to publish community assignments",
				zap.String("eventID", event.GetEventID()),
				zap.Int("communities", len(assignments)),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("Detected communities",
		zap.Int("communities", len(components)),
		zap.Int("users", result.UserCount),
	)
	return result, nil
}

// GetFriendshipBackboneHandler selects the minimum spanning forest of the
// friendship graph
type GetFriendshipBackboneHandler struct {
	graphs *services.FriendshipGraphService
	logger *zap.Logger
}

// NewGetFriendshipBackboneHandler creates a new backbone handler
func NewGetFriendshipBackboneHandler(graphs *services.FriendshipGraphService, logger *zap.Logger) *GetFriendshipBackboneHandler {
	return &GetFriendshipBackboneHandler{
		graphs: graphs,
		logger: logger,
	}
}

// Handle executes the backbone query. Each friendship weighs
// 1/(1+mutual friends), so ties embedded in many shared friendships are
// preferred.
func (h *GetFriendshipBackboneHandler) Handle(ctx context.Context, _ queries.GetFriendshipBackboneQuery) (*queries.GetFriendshipBackboneResult, error) {
	snapshot, err := h.graphs.Load(ctx)
	if err != nil {
		return nil, err
	}

	pairs := snapshot.Friendships()
	edges := make([]graph.WeightedEdge[valueobjects.UserID], len(pairs))
	for i, p := range pairs {
		mutual := len(snapshot.Graph.MutualNeighbors(p[0], p[1]))
		edges[i] = graph.WeightedEdge[valueobjects.UserID]{
			From:   p[0],
			To:     p[1],
			Weight: 1 / float64(1+mutual),
		}
	}

	backbone := graph.MinimumSpanningTree(edges)
	result := &queries.GetFriendshipBackboneResult{Edges: backbone}
	for _, e := range backbone {
		result.TotalWeight += e.Weight
	}
	if result.Edges == nil {
		result.Edges = []graph.WeightedEdge[valueobjects.UserID]{}
	}

	h.logger.Debug("Computed friendship backbone",
		zap.Int("friendships", len(edges)),
		zap.Int("selected", len(backbone)),
	)
	return result, nil
}
