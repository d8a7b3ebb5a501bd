package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"

	DefaultMaxParticipants = 10
)

const (
	ParticipantPending  = "pending"
	ParticipantAccepted = "accepted"
	ParticipantRejected = "rejected"
)

type Project struct {
	ID                  int64          `json:"id" db:"id"`
	Title               string         `json:"title" db:"title"`
	Description         string         `json:"description" db:"description"`
	Category            string         `json:"category" db:"category"`
	Status              string         `json:"status" db:"status"`
	Skills              pq.StringArray `json:"skills" db:"skills"`
	MaxParticipants     int            `json:"maxParticipants" db:"max_participants"`
	CurrentParticipants int            `json:"currentParticipants" db:"current_participants"`
	ImageURL            *string        `json:"imageUrl" db:"image_url"`
	CreatorID           int64          `json:"creatorId" db:"creator_id"`
	CreatedAt           time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsFull reports whether every participant slot is taken.
func (p *Project) IsFull() bool {
	return p.CurrentParticipants >= p.MaxParticipants
}

type ProjectParticipant struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"projectId" db:"project_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Status    string    `json:"status" db:"status"`
	JoinedAt  time.Time `json:"joinedAt" db:"joined_at"`
	UserName  string    `json:"userName" db:"user_name"`
}

type ProjectFilter struct {
	CreatorID int64
	Query     string
}
