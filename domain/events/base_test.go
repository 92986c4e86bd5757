package events

import (
	"encoding/json"
	"testing"
	"time"

	"socialgraph/domain/core/valueobjects"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommunitiesDetected(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	event := NewCommunitiesDetected([]CommunityAssignment{
		{CommunityID: "A", Label: "community_0", Members: []valueobjects.UserID{"A", "B", "C"}},
		{CommunityID: "D", Label: "community_1", Members: []valueobjects.UserID{"D", "E"}},
	}, now)

	assert.Equal(t, TypeCommunitiesDetected, event.GetEventType())
	assert.Equal(t, 2, event.CommunityCount)
	assert.Equal(t, 5, event.UserCount)
	assert.Equal(t, now, event.GetTimestamp())
	assert.Equal(t, 1, event.GetVersion())

	_, err := uuid.Parse(event.GetEventID())
	require.NoError(t, err)

	var _ DomainEvent = event
}

func TestEventIDsAreUnique(t *testing.T) {
	a := NewFeedCycleDetected("u1", []valueobjects.PostID{"p1"}, time.Now())
	b := NewFeedCycleDetected("u1", []valueobjects.PostID{"p1"}, time.Now())

	assert.NotEqual(t, a.GetEventID(), b.GetEventID())
	assert.Equal(t, "u1", a.GetAggregateID())
}

func TestFeedCycleDetected_JSON(t *testing.T) {
	event := NewFeedCycleDetected("u1", []valueobjects.PostID{"p1", "p2"}, time.Unix(0, 0).UTC())

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeFeedCycleDetected, decoded["event_type"])
	assert.Equal(t, "u1", decoded["user_id"])
	assert.Equal(t, []any{"p1", "p2"}, decoded["post_ids"])
}
