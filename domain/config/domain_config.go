package config

import (
	"fmt"
	"math"
	"time"

	"socialgraph/domain/core/ranking"
)

// DomainConfig holds the tunable business rules of the analytics engine
type DomainConfig struct {
	// Ranking
	Engagement ranking.EngagementWeights `yaml:"engagement"`

	// Feed candidate pool, as multiples of the requested window
	AuthoredCandidateFactor int `yaml:"authored_candidate_factor"`
	SharedCandidateFactor   int `yaml:"shared_candidate_factor"`

	// Pagination
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`

	// Friend suggestions
	DefaultSuggestionLimit int `yaml:"default_suggestion_limit"`
	MaxSuggestionLimit     int `yaml:"max_suggestion_limit"`
	MutualPreviewSize      int `yaml:"mutual_preview_size"`

	// Trending
	DefaultTrendingLimit  int `yaml:"default_trending_limit"`
	MaxTrendingLimit      int `yaml:"max_trending_limit"`
	MaxTrendingCandidates int `yaml:"max_trending_candidates"`

	// Snapshot limits
	MaxUsersPerSnapshot int           `yaml:"max_users_per_snapshot"`
	SnapshotCacheTTL    time.Duration `yaml:"snapshot_cache_ttl"`

	// Feature flags
	EnableDomainEvents bool `yaml:"enable_domain_events"`
	EnableQueryCaching bool `yaml:"enable_query_caching"`
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		Engagement: ranking.DefaultEngagementWeights(),

		AuthoredCandidateFactor: 3,
		SharedCandidateFactor:   2,

		DefaultPageSize: 20,
		MaxPageSize:     100,

		DefaultSuggestionLimit: 10,
		MaxSuggestionLimit:     50,
		MutualPreviewSize:      3,

		DefaultTrendingLimit: 10,
		MaxTrendingLimit:     100,
		// Every public post competes, not only the newest ones
		MaxTrendingCandidates: 100000,

		MaxUsersPerSnapshot: 100000,
		SnapshotCacheTTL:    30 * time.Second,

		EnableDomainEvents: true,
		EnableQueryCaching: true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Tighter limits for production
	config.MaxPageSize = 50
	config.MaxUsersPerSnapshot = 50000
	config.MaxTrendingCandidates = 50000
	config.SnapshotCacheTTL = time.Minute

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Fresh results on every request while developing
	config.EnableQueryCaching = false
	config.EnableDomainEvents = false
	config.SnapshotCacheTTL = 0

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Clone returns a copy of the configuration
func (c *DomainConfig) Clone() *DomainConfig {
	clone := *c
	return &clone
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"engagement.like_weight", c.Engagement.LikeWeight},
		{"engagement.comment_weight", c.Engagement.CommentWeight},
		{"engagement.share_weight", c.Engagement.ShareWeight},
		{"engagement.recency_window_hours", c.Engagement.RecencyWindowHours},
	}
	for _, w := range weights {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) || w.value < 0 {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", w.name, w.value)
		}
	}

	positives := []struct {
		name  string
		value int
	}{
		{"authored_candidate_factor", c.AuthoredCandidateFactor},
		{"shared_candidate_factor", c.SharedCandidateFactor},
		{"default_page_size", c.DefaultPageSize},
		{"max_page_size", c.MaxPageSize},
		{"default_suggestion_limit", c.DefaultSuggestionLimit},
		{"max_suggestion_limit", c.MaxSuggestionLimit},
		{"default_trending_limit", c.DefaultTrendingLimit},
		{"max_trending_limit", c.MaxTrendingLimit},
		{"max_trending_candidates", c.MaxTrendingCandidates},
		{"max_users_per_snapshot", c.MaxUsersPerSnapshot},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}

	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size %d exceeds max_page_size %d", c.DefaultPageSize, c.MaxPageSize)
	}
	if c.DefaultSuggestionLimit > c.MaxSuggestionLimit {
		return fmt.Errorf("default_suggestion_limit %d exceeds max_suggestion_limit %d", c.DefaultSuggestionLimit, c.MaxSuggestionLimit)
	}
	if c.DefaultTrendingLimit > c.MaxTrendingLimit {
		return fmt.Errorf("default_trending_limit %d exceeds max_trending_limit %d", c.DefaultTrendingLimit, c.MaxTrendingLimit)
	}
	if c.MaxTrendingCandidates < c.MaxTrendingLimit {
		return fmt.Errorf("max_trending_candidates %d is below max_trending_limit %d", c.MaxTrendingCandidates, c.MaxTrendingLimit)
	}
	if c.MutualPreviewSize < 0 {
		return fmt.Errorf("mutual_preview_size must not be negative, got %d", c.MutualPreviewSize)
	}
	if c.SnapshotCacheTTL < 0 {
		return fmt.Errorf("snapshot_cache_ttl must not be negative, got %s", c.SnapshotCacheTTL)
	}
	return nil
}

// ClampPageSize applies the default and maximum page size to a requested limit
func (c *DomainConfig) ClampPageSize(limit int) int {
	return clamp(limit, c.DefaultPageSize, c.MaxPageSize)
}

// ClampSuggestionLimit applies the suggestion defaults to a requested limit
func (c *DomainConfig) ClampSuggestionLimit(limit int) int {
	return clamp(limit, c.DefaultSuggestionLimit, c.MaxSuggestionLimit)
}

// ClampTrendingLimit applies the trending defaults to a requested limit
func (c *DomainConfig) ClampTrendingLimit(limit int) int {
	return clamp(limit, c.DefaultTrendingLimit, c.MaxTrendingLimit)
}

func clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
