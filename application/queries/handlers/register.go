package handlers

import (
	"socialgraph/application/queries"
	"socialgraph/application/queries/bus"
)

// Set groups every query handler so they can be injected together
type Set struct {
	FindConnection     *FindConnectionHandler
	MutualFriends      *GetMutualFriendsHandler
	SuggestFriends     *SuggestFriendsHandler
	DetectCommunities  *DetectCommunitiesHandler
	FriendshipBackbone *GetFriendshipBackboneHandler
	RankedFeed         *GetRankedFeedHandler
	TrendingPosts      *GetTrendingPostsHandler
}

// Register binds every handler in the set to its query type on b
func (s *Set) Register(b *bus.QueryBus) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.FindConnectionQuery{}, bus.Handle(s.FindConnection.Handle)},
		{queries.GetMutualFriendsQuery{}, bus.Handle(s.MutualFriends.Handle)},
		{queries.SuggestFriendsQuery{}, bus.Handle(s.SuggestFriends.Handle)},
		{queries.DetectCommunitiesQuery{}, bus.Handle(s.DetectCommunities.Handle)},
		{queries.GetFriendshipBackboneQuery{}, bus.Handle(s.FriendshipBackbone.Handle)},
		{queries.GetRankedFeedQuery{}, bus.Handle(s.RankedFeed.Handle)},
		{queries.GetTrendingPostsQuery{}, bus.Handle(s.TrendingPosts.Handle)},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}
