package memory

import (
	"context"
	"sort"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[a.AuthorID]; !ok {
		return errors.NotFound("User not found", nil)
	}

	now := s.now()
	a.ID = s.nextID()
	if a.Type == "" {
		a.Type = models.AnnouncementGeneral
	}
	a.Likes = 0
	a.CommentsCount = 0
	a.CreatedAt = now
	a.UpdatedAt = now
	a.AuthorName = s.userName(a.AuthorID)

	stored := *a
	s.announcements[a.ID] = &stored
	return nil
}

func (s *Store) ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	announcements := []models.Announcement{}
	for _, a := range s.announcements {
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.AuthorID != 0 && a.AuthorID != filter.AuthorID {
			continue
		}
		out := *a
		out.AuthorName = s.userName(a.AuthorID)
		announcements = append(announcements, out)
	}
	sort.Slice(announcements, func(i, j int) bool {
		return newerFirst(announcements[i].CreatedAt, announcements[i].ID, announcements[j].CreatedAt, announcements[j].ID)
	})
	return announcements, nil
}

func (s *Store) GetAnnouncement(ctx context.Context, id int64) (*models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.announcements[id]
	if !ok {
		return nil, errors.NotFound("Announcement not found", nil)
	}
	out := *a
	out.AuthorName = s.userName(a.AuthorID)
	return &out, nil
}

func (s *Store) LikeAnnouncement(ctx context.Context, announcementID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.announcements[announcementID]
	if !ok {
		return errors.NotFound("Announcement not found", nil)
	}
	key := likeKey{announcementID: announcementID, userID: userID}
	if _, liked := s.likes[key]; liked {
		return nil
	}
	s.likes[key] = s.now()
	a.Likes++
	return nil
}

func (s *Store) UnlikeAnnouncement(ctx context.Context, announcementID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.announcements[announcementID]
	if !ok {
		return errors.NotFound("Announcement not found", nil)
	}
	key := likeKey{announcementID: announcementID, userID: userID}
	if _, liked := s.likes[key]; !liked {
		return nil
	}
	delete(s.likes, key)
	a.Likes--
	return nil
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.announcements[c.AnnouncementID]
	if !ok {
		return errors.NotFound("Announcement not found", nil)
	}

	now := s.now()
	c.ID = s.nextID()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.UserName = s.userName(c.UserID)

	stored := *c
	s.comments[c.ID] = &stored
	a.CommentsCount++
	return nil
}

func (s *Store) ListComments(ctx context.Context, announcementID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.announcements[announcementID]; !ok {
		return nil, errors.NotFound("Announcement not found", nil)
	}
	comments := []models.Comment{}
	for _, c := range s.comments {
		if c.AnnouncementID != announcementID {
			continue
		}
		out := *c
		out.UserName = s.userName(c.UserID)
		comments = append(comments, out)
	}
	sort.Slice(comments, func(i, j int) bool {
		return newerFirst(comments[i].CreatedAt, comments[i].ID, comments[j].CreatedAt, comments[j].ID)
	})
	return comments, nil
}
