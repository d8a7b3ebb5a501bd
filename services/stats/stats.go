// Package stats serves the admin dashboard counters from a read-through cache.
package stats

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"skilllink/backend/cache"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

var Key = cache.Key("admin", "stats")

type Service struct {
	store  store.StatsStore
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func New(st store.StatsStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{store: st, cache: c, ttl: ttl, logger: logger}
}

// Get returns the cached counters, computing them on a miss. Cache failures
// fall back to the store.
func (s *Service) Get(ctx context.Context) (*models.Stats, error) {
	var cached models.Stats
	err := s.cache.Get(ctx, Key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !stderrors.Is(err, cache.ErrNotFound) {
		s.logger.Warn("error reading stats cache", zap.Error(err))
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, Key, stats, s.ttl); err != nil {
		s.logger.Warn("error writing stats cache", zap.Error(err))
	}
	return stats, nil
}

// Invalidate drops the cached counters after a moderation change.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, Key); err != nil {
		s.logger.Warn("error invalidating stats cache", zap.Error(err))
	}
}
