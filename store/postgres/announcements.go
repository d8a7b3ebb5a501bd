package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"skilllink/backend/models"
)

func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a.Type == "" {
		a.Type = models.AnnouncementGeneral
	}
	var id int64
	err := s.db.QueryRowxContext(ctx, InsertAnnouncementQuery, a.Title, a.Content, a.Type, a.ImageURL, a.AuthorID).Scan(&id)
	if err != nil {
		return mapErr(err, "User not found")
	}
	created, err := s.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

func (s *Store) ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	var w where
	if filter.Type != "" {
		w.add("a.type = ?", filter.Type)
	}
	if filter.AuthorID != 0 {
		w.add("a.author_id = ?", filter.AuthorID)
	}

	announcements := []models.Announcement{}
	query := SelectAnnouncementsQuery + w.String() + ` ORDER BY a.created_at DESC, a.id DESC`
	if err := s.db.SelectContext(ctx, &announcements, query, w.args...); err != nil {
		return nil, mapErr(err, "Announcement not found")
	}
	return announcements, nil
}

func (s *Store) GetAnnouncement(ctx context.Context, id int64) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.db.GetContext(ctx, &a, SelectAnnouncementsQuery+` WHERE a.id = $1`, id); err != nil {
		return nil, mapErr(err, "Announcement not found")
	}
	return &a, nil
}

// LikeAnnouncement is idempotent: the counter only moves when a like row is
// inserted.
func (s *Store) LikeAnnouncement(ctx context.Context, announcementID, userID int64) error {
	return s.toggleLike(ctx, announcementID, userID, InsertLikeQuery, 1)
}

// UnlikeAnnouncement only decrements when a like row was actually removed.
func (s *Store) UnlikeAnnouncement(ctx context.Context, announcementID, userID int64) error {
	return s.toggleLike(ctx, announcementID, userID, DeleteLikeQuery, -1)
}

func (s *Store) toggleLike(ctx context.Context, announcementID, userID int64, query string, delta int) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var id int64
		if err := tx.GetContext(ctx, &id, LockAnnouncementQuery, announcementID); err != nil {
			return mapErr(err, "Announcement not found")
		}
		res, err := tx.ExecContext(ctx, query, announcementID, userID)
		if err != nil {
			return mapErr(err, "Announcement not found")
		}
		n, err := rowsAffected(res)
		if err != nil || n == 0 {
			return err
		}
		_, err = tx.ExecContext(ctx, AdjustLikesQuery, announcementID, delta)
		return mapErr(err, "Announcement not found")
	})
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var id int64
		if err := tx.GetContext(ctx, &id, LockAnnouncementQuery, c.AnnouncementID); err != nil {
			return mapErr(err, "Announcement not found")
		}
		if err := tx.QueryRowxContext(ctx, InsertCommentQuery, c.AnnouncementID, c.UserID, c.Content).Scan(&id); err != nil {
			return mapErr(err, "Announcement not found")
		}
		if _, err := tx.ExecContext(ctx, IncrementCommentsQuery, c.AnnouncementID); err != nil {
			return mapErr(err, "Announcement not found")
		}
		return mapErr(tx.GetContext(ctx, c, SelectCommentsQuery+` WHERE c.id = $1`, id), "Comment not found")
	})
}

func (s *Store) ListComments(ctx context.Context, announcementID int64) ([]models.Comment, error) {
	if _, err := s.GetAnnouncement(ctx, announcementID); err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	query := SelectCommentsQuery + ` WHERE c.announcement_id = $1 ORDER BY c.created_at DESC, c.id DESC`
	if err := s.db.SelectContext(ctx, &comments, query, announcementID); err != nil {
		return nil, mapErr(err, "Comment not found")
	}
	return comments, nil
}
