package project

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

type CreateProjectRequest struct {
	Title           string   `json:"title" validate:"required,notblank,max=200"`
	Description     string   `json:"description" validate:"required,notblank,max=5000"`
	Category        string   `json:"category" validate:"required,notblank,max=100"`
	Status          string   `json:"status" validate:"omitempty,oneof=draft active completed cancelled"`
	Skills          []string `json:"skills" validate:"omitempty,max=30,dive,min=1,max=50"`
	MaxParticipants int      `json:"maxParticipants" validate:"omitempty,min=1,max=1000"`
	ImageURL        *string  `json:"imageUrl" validate:"omitempty,max=500"`
}

// ListProjectsHandler lists projects, newest first
// Used by: GET /api/projects?creator=&q=
func ListProjectsHandler(projects store.ProjectStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := httputil.QueryID(r, "creator")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		list, err := projects.ListProjects(r.Context(), models.ProjectFilter{
			CreatorID: creatorID,
			Query:     strings.TrimSpace(r.URL.Query().Get("q")),
		})
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// SearchProjectsHandler searches title, description and category
// Used by: GET /api/projects/search?q=
func SearchProjectsHandler(projects store.ProjectStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			httputil.WriteJSON(w, http.StatusOK, []models.Project{})
			return
		}
		list, err := projects.ListProjects(r.Context(), models.ProjectFilter{Query: query})
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateProjectHandler creates a project owned by the caller
// Used by: POST /api/projects
func CreateProjectHandler(projects store.ProjectStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		var req CreateProjectRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		p := &models.Project{
			Title:           strings.TrimSpace(req.Title),
			Description:     req.Description,
			Category:        strings.TrimSpace(req.Category),
			Status:          req.Status,
			Skills:          req.Skills,
			MaxParticipants: req.MaxParticipants,
			ImageURL:        req.ImageURL,
			CreatorID:       userID,
		}
		if p.Status == "" {
			p.Status = models.ProjectStatusActive
		}
		if p.MaxParticipants == 0 {
			p.MaxParticipants = models.DefaultMaxParticipants
		}

		if err := projects.CreateProject(r.Context(), p); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		logger.Info("project created", zap.Int64("project_id", p.ID), zap.Int64("creator_id", userID))
		httputil.WriteJSON(w, http.StatusCreated, p)
	}
}

// GetProjectHandler returns one project
// Used by: GET /api/projects/{id}
func GetProjectHandler(projects store.ProjectStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		p, err := projects.GetProject(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, p)
	}
}

// JoinProjectHandler records a pending participation request
// Used by: POST /api/projects/{id}/join
func JoinProjectHandler(projects store.ProjectStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		participant, err := projects.JoinProject(r.Context(), id, userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, participant)
	}
}

// ListParticipantsHandler lists a project's participants
// Used by: GET /api/projects/{id}/participants
func ListParticipantsHandler(projects store.ProjectStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		participants, err := projects.ListProjectParticipants(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, participants)
	}
}

// SetParticipantStatusHandler lets the creator accept or reject a request
// Used by: POST /api/projects/{id}/participants/{participantId}/accept|reject
func SetParticipantStatusHandler(projects store.ProjectStore, status string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		projectID, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		participantID, err := httputil.PathID(r, "participantId")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		p, err := projects.GetProject(r.Context(), projectID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if p.CreatorID != userID {
			httputil.WriteError(w, logger, errors.Forbidden("Only the project creator can manage participants", nil))
			return
		}

		participant, err := projects.SetParticipantStatus(r.Context(), projectID, participantID, status)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, participant)
	}
}
