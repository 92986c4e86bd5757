package handlers

import (
	"socialgraph/application/queries"
	"socialgraph/application/services"
	"socialgraph/domain/core/valueobjects"
)

func summarize(snapshot *services.FriendshipSnapshot, ids []valueobjects.UserID) []queries.UserSummary {
	out := make([]queries.UserSummary, len(ids))
	for i, id := range ids {
		out[i] = summary(snapshot, id)
	}
	return out
}

func summary(snapshot *services.FriendshipSnapshot, id valueobjects.UserID) queries.UserSummary {
	u := snapshot.User(id)
	return queries.UserSummary{ID: u.ID, Username: u.Username}
}
