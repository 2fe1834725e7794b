package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const dashboardKeyPrefix = "portal:dashboard:"

// Service fronts the repository with a redis cache on the dashboard path.
// A nil redis client disables caching without changing behavior.
type Service struct {
	repo  *Repository
	cache *redis.Client
	ttl   time.Duration
}

func NewService(repo *Repository, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

// Search is uncached; result pages are cheap relative to their churn.
func (s *Service) Search(ctx context.Context, f Filters, page, pageSize int) (*Result, error) {
	return s.repo.Search(ctx, f, page, pageSize)
}

// Dashboard serves statistics from redis when the same filter combination
// was computed within the TTL. Cache failures only cost the shortcut.
func (s *Service) Dashboard(ctx context.Context, f Filters) (*Statistics, error) {
	key := dashboardKey(f)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var stats Statistics
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			log.Printf("search: dashboard cache read: %v", err)
		}
	}

	stats, err := s.repo.Dashboard(ctx, f)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				log.Printf("search: dashboard cache write: %v", err)
			}
		}
	}
	return stats, nil
}

// WarmDashboard recomputes and caches the unfiltered dashboard, the one
// every portal visit hits first.
func (s *Service) WarmDashboard(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	stats, err := s.repo.Dashboard(ctx, Filters{})
	if err != nil {
		return fmt.Errorf("warm dashboard: %w", err)
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("warm dashboard: %w", err)
	}
	return s.cache.Set(ctx, dashboardKey(Filters{}), raw, s.ttl).Err()
}

// dashboardKey derives a stable cache key from the filter combination.
func dashboardKey(f Filters) string {
	raw, _ := json.Marshal(f)
	sum := sha256.Sum256(raw)
	return dashboardKeyPrefix + hex.EncodeToString(sum[:8])
}
