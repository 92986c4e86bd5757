package events

import (
	"time"

	"socialgraph/domain/core/valueobjects"

	"github.com/google/uuid"
)

// SourceSocialGraph is the event source reported to subscribers
const SourceSocialGraph = "socialgraph.analytics"

// Event types
const (
	TypeCommunitiesDetected = "communities.detected"
	TypeFeedCycleDetected   = "feed.cycle_detected"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func newBaseEvent(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// CommunityAssignment maps one detected community to its members
type CommunityAssignment struct {
	CommunityID string                `json:"community_id"`
	Label       string                `json:"label"`
	Members     []valueobjects.UserID `json:"members"`
}

// CommunitiesDetected is raised after the friendship graph is partitioned.
// Subscribers use the assignments to update per-user community labels.
type CommunitiesDetected struct {
	BaseEvent
	CommunityCount int                   `json:"community_count"`
	UserCount      int                   `json:"user_count"`
	Assignments    []CommunityAssignment `json:"assignments"`
}

// NewCommunitiesDetected creates a CommunitiesDetected event
func NewCommunitiesDetected(assignments []CommunityAssignment, timestamp time.Time) CommunitiesDetected {
	users := 0
	for _, a := range assignments {
		users += len(a.Members)
	}
	return CommunitiesDetected{
		BaseEvent:      newBaseEvent("friendship-graph", TypeCommunitiesDetected, timestamp),
		CommunityCount: len(assignments),
		UserCount:      users,
		Assignments:    assignments,
	}
}

// FeedCycleDetected is raised when a feed page contained posts that share
// each other in a cycle and had to be left out of the ordering.
type FeedCycleDetected struct {
	BaseEvent
	UserID  valueobjects.UserID   `json:"user_id"`
	PostIDs []valueobjects.PostID `json:"post_ids"`
}

// NewFeedCycleDetected creates a FeedCycleDetected event
func NewFeedCycleDetected(userID valueobjects.UserID, postIDs []valueobjects.PostID, timestamp time.Time) FeedCycleDetected {
	return FeedCycleDetected{
		BaseEvent: newBaseEvent(userID.String(), TypeFeedCycleDetected, timestamp),
		UserID:    userID,
		PostIDs:   postIDs,
	}
}
