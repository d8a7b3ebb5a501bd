package job

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

type CreateJobRequest struct {
	Title        string   `json:"title" validate:"required,notblank,max=200"`
	Description  string   `json:"description" validate:"required,notblank,max=10000"`
	Company      string   `json:"company" validate:"required,notblank,max=200"`
	Location     string   `json:"location" validate:"required,notblank,max=200"`
	Type         string   `json:"type" validate:"required,oneof=internship full_time part_time contract"`
	Duration     *string  `json:"duration" validate:"omitempty,max=100"`
	Salary       *string  `json:"salary" validate:"omitempty,max=100"`
	Requirements []string `json:"requirements" validate:"omitempty,max=50,dive,min=1,max=500"`
	Benefits     []string `json:"benefits" validate:"omitempty,max=50,dive,min=1,max=500"`
	Status       string   `json:"status" validate:"omitempty,oneof=active closed draft"`
}

type ApplyRequest struct {
	CoverLetter *string `json:"coverLetter" validate:"omitempty,max=5000"`
}

type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected withdrawn"`
}

// canPostJobs reports whether role may publish job offers.
func canPostJobs(role string) bool {
	return role == models.RoleCompany || role == models.RoleMentor || models.IsModerator(role)
}

// ListJobsHandler lists job offers, newest first. Non-active offers are only
// listed for their own poster.
// Used by: GET /api/jobs?poster=&type=&q=
func ListJobsHandler(jobs store.JobStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posterID, err := httputil.QueryID(r, "poster")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		filter := models.JobFilter{
			PosterID: posterID,
			Type:     r.URL.Query().Get("type"),
			Status:   models.JobStatusActive,
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if callerID, ok := auth.UserID(r.Context()); ok && posterID != 0 && posterID == callerID {
			filter.Status = ""
		}

		list, err := jobs.ListJobOffers(r.Context(), filter)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateJobHandler publishes a job offer
// Used by: POST /api/jobs
func CreateJobHandler(st store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := auth.CurrentUser(r, st)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if !canPostJobs(u.Role) {
			httputil.WriteError(w, logger, errors.Forbidden("Only companies and mentors can post jobs", nil))
			return
		}

		var req CreateJobRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		j := &models.JobOffer{
			Title:        strings.TrimSpace(req.Title),
			Description:  req.Description,
			Company:      strings.TrimSpace(req.Company),
			Location:     strings.TrimSpace(req.Location),
			Type:         req.Type,
			Duration:     req.Duration,
			Salary:       req.Salary,
			Requirements: req.Requirements,
			Benefits:     req.Benefits,
			Status:       req.Status,
			PosterID:     u.ID,
		}
		if err := st.CreateJobOffer(r.Context(), j); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		logger.Info("job offer created", zap.Int64("job_id", j.ID), zap.Int64("poster_id", u.ID))
		httputil.WriteJSON(w, http.StatusCreated, j)
	}
}

// GetJobHandler returns one job offer
// Used by: GET /api/jobs/{id}
func GetJobHandler(jobs store.JobStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		j, err := jobs.GetJobOffer(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, j)
	}
}

// ApplyHandler submits the caller's application
// Used by: POST /api/jobs/{id}/apply
func ApplyHandler(jobs store.JobStore, logger *zap.Logger) http.HandlerFunc {
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

		var req ApplyRequest
		if r.ContentLength != 0 {
			if err := httputil.Decode(r, &req); err != nil {
				httputil.WriteError(w, logger, err)
				return
			}
		}

		app, err := jobs.ApplyToJob(r.Context(), id, userID, req.CoverLetter)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, app)
	}
}

// MyApplicationsHandler lists the caller's applications
// Used by: GET /api/jobs/applications
func MyApplicationsHandler(jobs store.JobStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		apps, err := jobs.ListUserApplications(r.Context(), userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, apps)
	}
}

// JobApplicationsHandler lists the applications to one of the caller's offers
// Used by: GET /api/jobs/{id}/applications
func JobApplicationsHandler(jobs store.JobStore, logger *zap.Logger) http.HandlerFunc {
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
		j, err := jobs.GetJobOffer(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if j.PosterID != userID {
			httputil.WriteError(w, logger, errors.Forbidden("Only the poster can view applications", nil))
			return
		}
		apps, err := jobs.ListJobApplications(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, apps)
	}
}

// ApplicationStatusHandler updates an application. The poster decides
// accepted or rejected; the applicant may only withdraw.
// Used by: POST /api/jobs/applications/{id}/status
func ApplicationStatusHandler(jobs store.JobStore, logger *zap.Logger) http.HandlerFunc {
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

		var req ApplicationStatusRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		app, err := jobs.GetJobApplication(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		if req.Status == models.ApplicationWithdrawn {
			if app.UserID != userID {
				httputil.WriteError(w, logger, errors.Forbidden("Only the applicant can withdraw", nil))
				return
			}
		} else {
			j, err := jobs.GetJobOffer(r.Context(), app.JobID)
			if err != nil {
				httputil.WriteError(w, logger, err)
				return
			}
			if j.PosterID != userID {
				httputil.WriteError(w, logger, errors.Forbidden("Only the poster can review applications", nil))
				return
			}
		}

		updated, err := jobs.SetApplicationStatus(r.Context(), id, req.Status)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, updated)
	}
}
