package postgres

import (
	"context"
	"time"

	"skilllink/backend/models"
	"skilllink/backend/store"
)

func (s *Store) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	since := time.Now().Add(-store.ActiveUserWindow)
	if err := s.db.GetContext(ctx, &stats, StatsQuery, since); err != nil {
		return nil, mapErr(err, "Stats not available")
	}
	return &stats, nil
}
