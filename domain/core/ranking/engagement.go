package ranking

import (
	"math"
	"time"

	"socialgraph/domain/core/entities"
)

// EngagementWeights are the tunables of the engagement score. Comments count
// double a like and shares triple; fresh posts get a flat recency bonus that
// decays linearly to zero over RecencyWindowHours.
type EngagementWeights struct {
	LikeWeight         float64 `json:"like_weight" yaml:"like_weight"`
	CommentWeight      float64 `json:"comment_weight" yaml:"comment_weight"`
	ShareWeight        float64 `json:"share_weight" yaml:"share_weight"`
	RecencyWindowHours float64 `json:"recency_window_hours" yaml:"recency_window_hours"`
}

// DefaultEngagementWeights returns the production weighting
func DefaultEngagementWeights() EngagementWeights {
	return EngagementWeights{
		LikeWeight:         1,
		CommentWeight:      2,
		ShareWeight:        3,
		RecencyWindowHours: 100,
	}
}

// Scorer computes engagement scores. The zero value is not useful; use
// NewScorer.
type Scorer struct {
	weights EngagementWeights
}

// NewScorer creates a scorer with the given weights
func NewScorer(weights EngagementWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the scorer's configuration
func (s *Scorer) Weights() EngagementWeights {
	return s.weights
}

// Score returns the ranking weight of post at time now. A missing creation
// time counts as age zero and a creation time after now is not rewarded
// beyond age zero. Non-finite results collapse to 0.
func (s *Scorer) Score(post entities.Post, now time.Time) float64 {
	recency := math.Max(0, s.weights.RecencyWindowHours-ageHours(post.CreatedAt, now))

	score := float64(post.LikeCount)*s.weights.LikeWeight +
		float64(post.CommentCount)*s.weights.CommentWeight +
		float64(post.ShareCount)*s.weights.ShareWeight +
		recency

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// ScoredPost pairs a post with its computed score
type ScoredPost struct {
	Post  entities.Post `json:"post"`
	Score float64       `json:"score"`
}

// ScoreAll scores every post against the same reference time
func (s *Scorer) ScoreAll(posts []entities.Post, now time.Time) []ScoredPost {
	out := make([]ScoredPost, len(posts))
	for i, p := range posts {
		out[i] = ScoredPost{Post: p, Score: s.Score(p, now)}
	}
	return out
}

// Rank scores posts, pushes them through a priority queue and returns the
// top k in descending score order. k <= 0 returns every post.
func (s *Scorer) Rank(posts []entities.Post, now time.Time, k int) []ScoredPost {
	pq := NewPriorityQueue[ScoredPost](len(posts))
	for _, sp := range s.ScoreAll(posts, now) {
		pq.Enqueue(sp, sp.Score)
	}
	if k <= 0 {
		k = pq.Len()
	}
	return pq.TakeTop(k)
}

func ageHours(createdAt, now time.Time) float64 {
	if createdAt.IsZero() || now.IsZero() {
		return 0
	}
	hours := now.Sub(createdAt).Hours()
	if math.IsNaN(hours) || hours < 0 {
		return 0
	}
	return hours
}
