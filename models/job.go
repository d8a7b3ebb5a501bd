package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	JobTypeInternship = "internship"
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
)

const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

const (
	ApplicationPending   = "pending"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

// JobOffer is a posting by a company, mentor or moderator.
type JobOffer struct {
	ID           int64          `json:"id" db:"id"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description" db:"description"`
	Company      string         `json:"company" db:"company"`
	Location     string         `json:"location" db:"location"`
	Type         string         `json:"type" db:"type"`
	Duration     *string        `json:"duration" db:"duration"`
	Salary       *string        `json:"salary" db:"salary"`
	Requirements pq.StringArray `json:"requirements" db:"requirements"`
	Benefits     pq.StringArray `json:"benefits" db:"benefits"`
	Status       string         `json:"status" db:"status"`
	PosterID     int64          `json:"posterId" db:"poster_id"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

type JobApplication struct {
	ID          int64     `json:"id" db:"id"`
	JobID       int64     `json:"jobId" db:"job_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Status      string    `json:"status" db:"status"`
	CoverLetter *string   `json:"coverLetter" db:"cover_letter"`
	AppliedAt   time.Time `json:"appliedAt" db:"applied_at"`
	JobTitle    string    `json:"jobTitle" db:"job_title"`
	UserName    string    `json:"userName" db:"user_name"`
}

// JobFilter narrows ListJobOffers. Zero values match everything.
type JobFilter struct {
	PosterID int64
	Type     string
	Status   string
	Query    string
}
