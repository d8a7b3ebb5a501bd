package announcement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skilllink/backend/cache"
	cachememory "skilllink/backend/cache/memory"
	"skilllink/backend/models"
	"skilllink/backend/store"
	"skilllink/backend/store/memory"
)

// racingStore posts an announcement in the middle of a feed read, the way a
// concurrent request would.
type racingStore struct {
	store.AnnouncementStore
	during func()
}

func (s *racingStore) ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	list, err := s.AnnouncementStore.ListAnnouncements(ctx, filter)
	if s.during != nil {
		s.during()
		s.during = nil
	}
	return list, err
}

func listFeed(t *testing.T, h *Handlers) []models.Announcement {
	t.Helper()
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/announcements", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Announcement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}

func TestList_DoesNotCacheListOverlappingAWrite(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	author := &models.User{Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, st.CreateUser(ctx, author))
	require.NoError(t, st.CreateAnnouncement(ctx, &models.Announcement{Content: "first", AuthorID: author.ID}))

	c := cachememory.New(cache.Options{DefaultTTL: time.Minute})
	t.Cleanup(func() { c.Close() })
	racing := &racingStore{AnnouncementStore: st}
	h := NewHandlers(racing, c, time.Minute, zap.NewNop())

	racing.during = func() {
		require.NoError(t, st.CreateAnnouncement(ctx, &models.Announcement{Content: "second", AuthorID: author.ID}))
		h.Invalidate(ctx)
	}
	assert.Len(t, listFeed(t, h), 1, "the overlapping read still answers with what it saw")

	var cached []models.Announcement
	assert.ErrorIs(t, c.Get(ctx, FeedKey, &cached), cache.ErrNotFound)
	assert.Len(t, listFeed(t, h), 2)

	require.NoError(t, c.Get(ctx, FeedKey, &cached))
	assert.Len(t, cached, 2)
}
