package models

import "time"

const (
	ServiceStatusActive          = "active"
	ServiceStatusInactive        = "inactive"
	ServiceStatusPendingApproval = "pending_approval"
)

const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestCompleted = "completed"
)

// Service is a peer-offered task-for-hire listing. New services wait for
// moderator approval before they show up in public listings.
type Service struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Category     string    `json:"category" db:"category"`
	Price        *string   `json:"price" db:"price"`
	Location     *string   `json:"location" db:"location"`
	Availability *string   `json:"availability" db:"availability"`
	ImageURL     *string   `json:"imageUrl" db:"image_url"`
	Status       string    `json:"status" db:"status"`
	ProviderID   int64     `json:"providerId" db:"provider_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ServiceRequest is a user's request to engage a published service.
type ServiceRequest struct {
	ID            int64      `json:"id" db:"id"`
	ServiceID     int64      `json:"serviceId" db:"service_id"`
	RequesterID   int64      `json:"requesterId" db:"requester_id"`
	Message       *string    `json:"message" db:"message"`
	Status        string     `json:"status" db:"status"`
	RequestedAt   time.Time  `json:"requestedAt" db:"requested_at"`
	ApprovedAt    *time.Time `json:"approvedAt" db:"approved_at"`
	CompletedAt   *time.Time `json:"completedAt" db:"completed_at"`
	ServiceTitle  string     `json:"serviceTitle" db:"service_title"`
	RequesterName string     `json:"requesterName" db:"requester_name"`
}

type ServiceFilter struct {
	ProviderID int64
	Status     string
	Query      string
}

type ServiceRequestFilter struct {
	Status      string
	ServiceID   int64
	RequesterID int64
}
