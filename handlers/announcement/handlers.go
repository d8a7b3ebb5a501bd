package announcement

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"skilllink/backend/cache"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

// FeedKey caches the unfiltered feed. Every write to an announcement, and
// every profile change of an author, drops it.
var FeedKey = cache.Key("feed")

type CreateAnnouncementRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  string  `json:"content" validate:"required,notblank,max=5000"`
	Type     string  `json:"type" validate:"omitempty,oneof=general project job service"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,max=500"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

type Handlers struct {
	announcements store.AnnouncementStore
	cache         cache.Cache
	ttl           time.Duration
	logger        *zap.Logger

	// generation moves on every invalidation; a list read that overlaps one
	// is served but not cached.
	generation atomic.Uint64
}

func NewHandlers(announcements store.AnnouncementStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Handlers {
	return &Handlers{announcements: announcements, cache: c, ttl: ttl, logger: logger}
}

// List returns the feed, newest first
// Used by: GET /api/announcements?type=&author=
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	authorID, err := httputil.QueryID(r, "author")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	filter := models.AnnouncementFilter{Type: r.URL.Query().Get("type"), AuthorID: authorID}
	unfiltered := filter == models.AnnouncementFilter{}

	if unfiltered {
		var cached []models.Announcement
		err := h.cache.Get(r.Context(), FeedKey, &cached)
		if err == nil {
			httputil.WriteJSON(w, http.StatusOK, cached)
			return
		}
		if !stderrors.Is(err, cache.ErrNotFound) {
			h.logger.Warn("error reading feed cache", zap.Error(err))
		}
	}

	gen := h.generation.Load()
	list, err := h.announcements.ListAnnouncements(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if unfiltered && h.generation.Load() == gen {
		if err := h.cache.Set(r.Context(), FeedKey, list, h.ttl); err != nil {
			h.logger.Warn("error writing feed cache", zap.Error(err))
		}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// Create posts an announcement as the caller
// Used by: POST /api/announcements
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.MustUserID(r)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	var req CreateAnnouncementRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	a := &models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		ImageURL: req.ImageURL,
		AuthorID: userID,
	}
	if err := h.announcements.CreateAnnouncement(r.Context(), a); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	h.Invalidate(r.Context())
	httputil.WriteJSON(w, http.StatusCreated, a)
}

// Like adds the caller's like; liking twice is a no-op
// Used by: POST /api/announcements/{id}/like
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, h.announcements.LikeAnnouncement)
}

// Unlike removes the caller's like, if any
// Used by: DELETE /api/announcements/{id}/like
func (h *Handlers) Unlike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, h.announcements.UnlikeAnnouncement)
}

func (h *Handlers) toggleLike(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, announcementID, userID int64) error) {
	userID, err := auth.MustUserID(r)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	if err := apply(r.Context(), id, userID); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	h.Invalidate(r.Context())

	a, err := h.announcements.GetAnnouncement(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

// ListComments returns an announcement's comments, newest first
// Used by: GET /api/announcements/{id}/comments
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	comments, err := h.announcements.ListComments(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comments)
}

// CreateComment comments on an announcement as the caller
// Used by: POST /api/announcements/{id}/comments
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.MustUserID(r)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	var req CommentRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	c := &models.Comment{AnnouncementID: id, UserID: userID, Content: req.Content}
	if err := h.announcements.CreateComment(r.Context(), c); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	h.Invalidate(r.Context())
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// Invalidate drops the cached feed.
func (h *Handlers) Invalidate(ctx context.Context) {
	h.generation.Add(1)
	if err := h.cache.Delete(ctx, FeedKey); err != nil {
		h.logger.Warn("error invalidating feed cache", zap.Error(err))
	}
}
