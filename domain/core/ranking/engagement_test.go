package ranking

import (
	"math"
	"testing"
	"time"

	"socialgraph/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func postAged(hours float64, likes, comments, shares int) entities.Post {
	return entities.Post{
		ID:           "p",
		CreatedAt:    referenceTime.Add(-time.Duration(hours * float64(time.Hour))),
		LikeCount:    likes,
		CommentCount: comments,
		ShareCount:   shares,
	}
}

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer(DefaultEngagementWeights())

	tests := []struct {
		name string
		post entities.Post
		want float64
	}{
		{name: "fresh post", post: postAged(0, 10, 2, 1), want: 117},
		{name: "past recency window", post: postAged(150, 10, 2, 1), want: 17},
		{name: "half way", post: postAged(50, 0, 0, 0), want: 50},
		{name: "exactly at window", post: postAged(100, 1, 0, 0), want: 1},
		{name: "created in the future", post: postAged(-5, 0, 1, 0), want: 102},
		{name: "missing timestamp", post: entities.Post{LikeCount: 3}, want: 103},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.Score(tt.post, referenceTime), 1e-9)
		})
	}
}

func TestScorer_Score_NonFiniteClampsToZero(t *testing.T) {
	scorer := NewScorer(EngagementWeights{
		LikeWeight:         math.Inf(1),
		CommentWeight:      2,
		ShareWeight:        3,
		RecencyWindowHours: 100,
	})
	assert.Equal(t, 0.0, scorer.Score(postAged(0, 1, 0, 0), referenceTime))

	nan := NewScorer(EngagementWeights{LikeWeight: math.NaN(), RecencyWindowHours: 100})
	assert.Equal(t, 0.0, nan.Score(postAged(0, 1, 0, 0), referenceTime))
}

func TestScorer_Score_DecreasesWithAge(t *testing.T) {
	scorer := NewScorer(DefaultEngagementWeights())

	previous := math.Inf(1)
	for hours := 0.0; hours < 100; hours += 7.5 {
		score := scorer.Score(postAged(hours, 4, 1, 2), referenceTime)
		assert.Less(t, score, previous, "age %.1f", hours)
		assert.GreaterOrEqual(t, score, 0.0)
		previous = score
	}

	floor := scorer.Score(postAged(100, 4, 1, 2), referenceTime)
	assert.Equal(t, floor, scorer.Score(postAged(1000, 4, 1, 2), referenceTime))
}

func TestScorer_Rank(t *testing.T) {
	scorer := NewScorer(DefaultEngagementWeights())
	posts := []entities.Post{
		{ID: "old-popular", CreatedAt: referenceTime.Add(-200 * time.Hour), LikeCount: 150},
		{ID: "fresh", CreatedAt: referenceTime},
		{ID: "stale", CreatedAt: referenceTime.Add(-300 * time.Hour), LikeCount: 1},
		{ID: "fresh-liked", CreatedAt: referenceTime, LikeCount: 5},
	}

	ranked := scorer.Rank(posts, referenceTime, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "old-popular", ranked[0].Post.ID.String())
	assert.Equal(t, "fresh-liked", ranked[1].Post.ID.String())
	assert.Equal(t, "fresh", ranked[2].Post.ID.String())

	assert.Len(t, scorer.Rank(posts, referenceTime, 0), 4)
}
