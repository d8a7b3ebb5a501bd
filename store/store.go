// Package store defines the data-access interface the handlers consume.
// Implementations live in store/postgres and store/memory.
package store

import (
	"context"
	"time"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

// ActiveUserWindow is how recently a user must have updated their account to
// count as active in the admin statistics.
const ActiveUserWindow = 30 * 24 * time.Hour

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUsers returns the users with the given ids; unknown ids are skipped.
	GetUsers(ctx context.Context, ids []int64) ([]models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
	SetUserRole(ctx context.Context, id int64, role string) error
	SetProfileImage(ctx context.Context, id int64, url *string) error
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type ProjectStore interface {
	CreateProject(ctx context.Context, p *models.Project) error
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	JoinProject(ctx context.Context, projectID, userID int64) (*models.ProjectParticipant, error)
	ListProjectParticipants(ctx context.Context, projectID int64) ([]models.ProjectParticipant, error)
	SetParticipantStatus(ctx context.Context, projectID, participantID int64, status string) (*models.ProjectParticipant, error)
}

type JobStore interface {
	CreateJobOffer(ctx context.Context, j *models.JobOffer) error
	ListJobOffers(ctx context.Context, filter models.JobFilter) ([]models.JobOffer, error)
	GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error)
	ApplyToJob(ctx context.Context, jobID, userID int64, coverLetter *string) (*models.JobApplication, error)
	GetJobApplication(ctx context.Context, id int64) (*models.JobApplication, error)
	ListUserApplications(ctx context.Context, userID int64) ([]models.JobApplication, error)
	ListJobApplications(ctx context.Context, jobID int64) ([]models.JobApplication, error)
	SetApplicationStatus(ctx context.Context, id int64, status string) (*models.JobApplication, error)
}

type ServiceStore interface {
	CreateService(ctx context.Context, s *models.Service) error
	ListServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	SetServiceStatus(ctx context.Context, id int64, status string) error
	DeleteService(ctx context.Context, id int64) error
	CreateServiceRequest(ctx context.Context, serviceID, requesterID int64, message *string) (*models.ServiceRequest, error)
	ListServiceRequests(ctx context.Context, filter models.ServiceRequestFilter) ([]models.ServiceRequest, error)
	SetServiceRequestStatus(ctx context.Context, id int64, status string) (*models.ServiceRequest, error)
}

type AnnouncementStore interface {
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error)
	GetAnnouncement(ctx context.Context, id int64) (*models.Announcement, error)
	LikeAnnouncement(ctx context.Context, announcementID, userID int64) error
	UnlikeAnnouncement(ctx context.Context, announcementID, userID int64) error
	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, announcementID int64) ([]models.Comment, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	ListUserMessages(ctx context.Context, userID int64) ([]models.Message, error)
	GetConversation(ctx context.Context, userID, otherID int64) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, id int64) error
	MarkConversationRead(ctx context.Context, receiverID, senderID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type ConnectionStore interface {
	CreateConnection(ctx context.Context, requesterID, receiverID int64) (*models.Connection, error)
	GetConnection(ctx context.Context, id int64) (*models.Connection, error)
	ListConnections(ctx context.Context, userID int64, status string) ([]models.Connection, error)
	ListIncomingRequests(ctx context.Context, userID int64) ([]models.Connection, error)
	RespondConnection(ctx context.Context, id int64, status string) (*models.Connection, error)
	DeleteConnection(ctx context.Context, id int64) error
}

type StatsStore interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// Store is the full data-access surface of the application.
type Store interface {
	UserStore
	ProjectStore
	JobStore
	ServiceStore
	AnnouncementStore
	MessageStore
	ConnectionStore
	StatsStore

	Ping(ctx context.Context) error
	Close() error
}

// CheckRequestTransition allows a service request to move pending ->
// approved|rejected and approved -> completed.
func CheckRequestTransition(from, to string) error {
	switch to {
	case models.RequestApproved, models.RequestRejected:
		if from == models.RequestPending {
			return nil
		}
	case models.RequestCompleted:
		if from == models.RequestApproved {
			return nil
		}
	default:
		return errors.InvalidInput("Unknown service request status", nil)
	}
	return errors.InvalidInput("Service request is already "+from, nil)
}

// CheckApplicationTransition allows a job application to move pending ->
// accepted|rejected|withdrawn and accepted -> withdrawn. Withdrawn and
// rejected applications are final.
func CheckApplicationTransition(from, to string) error {
	switch to {
	case models.ApplicationAccepted, models.ApplicationRejected:
		if from == models.ApplicationPending {
			return nil
		}
	case models.ApplicationWithdrawn:
		if from == models.ApplicationPending || from == models.ApplicationAccepted {
			return nil
		}
	default:
		return errors.InvalidInput("Unknown application status", nil)
	}
	return errors.InvalidInput("Application is already "+from, nil)
}
