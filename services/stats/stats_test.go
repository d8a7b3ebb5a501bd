package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skilllink/backend/cache"
	cachememory "skilllink/backend/cache/memory"
	"skilllink/backend/models"
)

type countingStore struct {
	calls int
	stats models.Stats
}

func (s *countingStore) Stats(ctx context.Context) (*models.Stats, error) {
	s.calls++
	out := s.stats
	return &out, nil
}

func TestService_Get_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{stats: models.Stats{TotalUsers: 3}}
	svc := New(st, cachememory.New(cache.DefaultOptions()), time.Minute, zap.NewNop())

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalUsers)

	st.stats.TotalUsers = 4
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalUsers, "second read should come from the cache")
	assert.Equal(t, 1, st.calls)

	svc.Invalidate(ctx)
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalUsers)
	assert.Equal(t, 2, st.calls)
}

func TestService_Get_ClosedCacheFallsBack(t *testing.T) {
	ctx := context.Background()
	c := cachememory.New(cache.DefaultOptions())
	require.NoError(t, c.Close())

	st := &countingStore{stats: models.Stats{TotalJobs: 7}}
	got, err := New(st, c, time.Minute, zap.NewNop()).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalJobs)
}
