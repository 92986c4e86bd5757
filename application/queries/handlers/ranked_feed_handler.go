package handlers

import (
	"context"
	"time"

	"socialgraph/application/ports"
	"socialgraph/application/queries"
	"socialgraph/domain/config"
	"socialgraph/domain/core/entities"
	"socialgraph/domain/core/ranking"
	"socialgraph/domain/core/valueobjects"
	"socialgraph/domain/events"
	"socialgraph/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetRankedFeedHandler builds a user's engagement-ranked feed
type GetRankedFeedHandler struct {
	users     ports.UserReader
	posts     ports.PostReader
	publisher ports.EventPublisher
	clock     ports.Clock
	config    config.Provider
	logger    *zap.Logger
}

// NewGetRankedFeedHandler creates a new feed handler
func NewGetRankedFeedHandler(
	users ports.UserReader,
	posts ports.PostReader,
	publisher ports.EventPublisher,
	clock ports.Clock,
	config config.Provider,
	logger *zap.Logger,
) *GetRankedFeedHandler {
	return &GetRankedFeedHandler{
		users:     users,
		posts:     posts,
		publisher: publisher,
		clock:     clock,
		config:    config,
		logger:    logger,
	}
}

// Handle executes the feed query
func (h *GetRankedFeedHandler) Handle(ctx context.Context, query queries.GetRankedFeedQuery) (*queries.GetRankedFeedResult, error) {
	cfg := h.config.Current()
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := cfg.ClampPageSize(query.Limit)
	skip := (page - 1) * limit
	window := skip + limit

	viewer := valueobjects.UserID(query.UserID)
	user, err := h.users.GetUser(ctx, viewer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load feed owner")
	}

	friends := make(map[valueobjects.UserID]bool, len(user.FriendIDs))
	circle := make([]valueobjects.UserID, 0, len(user.FriendIDs)+1)
	for _, f := range user.FriendIDs {
		if !friends[f] {
			friends[f] = true
			circle = append(circle, f)
		}
	}
	circle = append(circle, viewer)

	var authored, shared []entities.Post
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authored, err = h.posts.ListByAuthors(gctx, circle, window*cfg.AuthoredCandidateFactor)
		return errors.Wrapf(err, "failed to load posts authored by %d users", len(circle))
	})
	g.Go(func() error {
		var err error
		shared, err = h.posts.ListSharedBy(gctx, circle, window*cfg.SharedCandidateFactor)
		return errors.Wrapf(err, "failed to load posts shared by %d users", len(circle))
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates, sharedIDs := mergeCandidates(viewer, friends, authored, shared)

	now := h.clock.Now()
	scorer := ranking.NewScorer(cfg.Engagement)
	ranked := scorer.Rank(candidates, now, window)

	rankedPosts := make([]entities.Post, len(ranked))
	scores := make(map[valueobjects.PostID]float64, len(ranked))
	for i, sp := range ranked {
		rankedPosts[i] = sp.Post
		scores[sp.Post.ID] = sp.Score
	}

	order := ranking.OrderFeed(rankedPosts)
	ordered := ranking.ApplyOrder(rankedPosts, order)

	end := skip + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	result := &queries.GetRankedFeedResult{
		Posts:            make([]queries.FeedPost, 0, limit),
		Page:             page,
		Limit:            limit,
		HasMore:          len(candidates) > skip+limit,
		DroppedFromOrder: order.Dropped,
		GeneratedAt:      now,
	}
	if skip < end {
		for _, p := range ordered[skip:end] {
			result.Posts = append(result.Posts, queries.FeedPost{
				Post:     p,
				Score:    scores[p.ID],
				IsShared: sharedIDs[p.ID],
			})
		}
	}

	if len(order.Dropped) > 0 {
		h.reportCycle(ctx, viewer, order.Dropped, now)
	}

	h.logger.Debug("Ranked feed",
		zap.String("userID", query.UserID),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
		zap.Int("returned", len(result.Posts)),
	)
	return result, nil
}

func (h *GetRankedFeedHandler) reportCycle(ctx context.Context, viewer valueobjects.UserID, dropped []valueobjects.PostID, now time.Time) {
	h.logger.Warn("Feed page contains a share cycle",
		zap.String("userID", viewer.String()),
		zap.Int("dropped", len(dropped)),
	)
	if !h.config.Current().EnableDomainEvents {
		return
	}
	event := events.NewFeedCycleDetected(viewer, dropped, now)
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish feed cycle event",
			zap.String("eventID", event.GetEventID()),
			zap.Error(err),
		)
	}
}

// mergeCandidates combines the authored and shared pools, dropping posts the
// viewer may not see. An authored copy wins over a shared copy of the same
// post; shared copies keep only the sharers inside the viewer's circle.
func mergeCandidates(
	viewer valueobjects.UserID,
	friends map[valueobjects.UserID]bool,
	authored, shared []entities.Post,
) ([]entities.Post, map[valueobjects.PostID]bool) {
	circle := make(map[valueobjects.UserID]bool, len(friends)+1)
	for f := range friends {
		circle[f] = true
	}
	circle[viewer] = true

	seen := make(map[valueobjects.PostID]bool, len(authored)+len(shared))
	sharedIDs := make(map[valueobjects.PostID]bool)
	out := make([]entities.Post, 0, len(authored)+len(shared))

	for _, p := range authored {
		if seen[p.ID] || !p.IsVisibleTo(viewer, friends) {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	for _, p := range shared {
		if seen[p.ID] || !p.IsVisibleTo(viewer, friends) {
			continue
		}
		seen[p.ID] = true
		sharers := make([]valueobjects.UserID, 0, len(p.SharedBy))
		for _, u := range p.SharedBy {
			if circle[u] {
				sharers = append(sharers, u)
			}
		}
		p.SharedBy = sharers
		sharedIDs[p.ID] = true
		out = append(out, p)
	}
	return out, sharedIDs
}
