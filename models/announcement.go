package models

import "time"

const (
	AnnouncementGeneral = "general"
	AnnouncementProject = "project"
	AnnouncementJob     = "job"
	AnnouncementService = "service"
)

// Announcement is a social-feed post. Likes and CommentsCount are maintained
// by the store, never taken from client input.
type Announcement struct {
	ID            int64     `json:"id" db:"id"`
	Title         *string   `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Type          string    `json:"type" db:"type"`
	ImageURL      *string   `json:"imageUrl" db:"image_url"`
	AuthorID      int64     `json:"authorId" db:"author_id"`
	Likes         int       `json:"likes" db:"likes"`
	CommentsCount int       `json:"commentsCount" db:"comments_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	AuthorName    string    `json:"authorName" db:"author_name"`
}

type AnnouncementFilter struct {
	Type     string
	AuthorID int64
}

type Comment struct {
	ID             int64     `json:"id" db:"id"`
	AnnouncementID int64     `json:"announcementId" db:"announcement_id"`
	UserID         int64     `json:"userId" db:"user_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
	UserName       string    `json:"userName" db:"user_name"`
}
