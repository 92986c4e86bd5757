package handlers

import (
	"context"

	"socialgraph/application/ports"
	"socialgraph/application/queries"
	"socialgraph/domain/config"
	"socialgraph/domain/core/ranking"
	"socialgraph/pkg/errors"

	"go.uber.org/zap"
)

// GetTrendingPostsHandler ranks public posts by engagement
type GetTrendingPostsHandler struct {
	posts  ports.PostReader
	clock  ports.Clock
	config config.Provider
	logger *zap.Logger
}

// NewGetTrendingPostsHandler creates a new trending handler
func NewGetTrendingPostsHandler(
	posts ports.PostReader,
	clock ports.Clock,
	config config.Provider,
	logger *zap.Logger,
) *GetTrendingPostsHandler {
	return &GetTrendingPostsHandler{
		posts:  posts,
		clock:  clock,
		config: config,
		logger: logger,
	}
}

// Handle executes the trending query. Scores are recomputed at request time
// over the whole public pool, up to MaxTrendingCandidates posts.
func (h *GetTrendingPostsHandler) Handle(ctx context.Context, query queries.GetTrendingPostsQuery) (*queries.GetTrendingPostsResult, error) {
	cfg := h.config.Current()
	limit := cfg.ClampTrendingLimit(query.Limit)

	candidates, err := h.posts.ListPublic(ctx, cfg.MaxTrendingCandidates)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load public posts")
	}
	if len(candidates) == cfg.MaxTrendingCandidates {
		h.logger.Warn("Trending pool truncated", zap.Int("candidates", len(candidates)))
	}

	ranked := ranking.NewScorer(cfg.Engagement).Rank(candidates, h.clock.Now(), limit)
	result := &queries.GetTrendingPostsResult{
		Posts: make([]queries.FeedPost, len(ranked)),
	}
	for i, sp := range ranked {
		result.Posts[i] = queries.FeedPost{Post: sp.Post, Score: sp.Score}
	}
	return result, nil
}
