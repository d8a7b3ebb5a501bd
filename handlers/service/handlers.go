package service

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/events"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

// CreateServiceRequest is the body of POST /api/services. There is no status
// field: new services always wait for approval.
type CreateServiceRequest struct {
	Title        string  `json:"title" validate:"required,notblank,max=200"`
	Description  string  `json:"description" validate:"required,notblank,max=5000"`
	Category     string  `json:"category" validate:"required,notblank,max=100"`
	Price        *string `json:"price" validate:"omitempty,max=100"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	Availability *string `json:"availability" validate:"omitempty,max=200"`
	ImageURL     *string `json:"imageUrl" validate:"omitempty,max=500"`
}

type RequestServiceRequest struct {
	Message *string `json:"message" validate:"omitempty,max=2000"`
}

// ListServicesHandler lists active services. Providers asking for their own
// listings see every status.
// Used by: GET /api/services?provider=
func ListServicesHandler(services store.ServiceStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, err := httputil.QueryID(r, "provider")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		filter := models.ServiceFilter{ProviderID: providerID, Status: models.ServiceStatusActive}
		if callerID, ok := auth.UserID(r.Context()); ok && providerID != 0 && providerID == callerID {
			filter.Status = ""
		}

		list, err := services.ListServices(r.Context(), filter)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// SearchServicesHandler searches active services
// Used by: GET /api/services/search?q=
func SearchServicesHandler(services store.ServiceStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			httputil.WriteJSON(w, http.StatusOK, []models.Service{})
			return
		}
		list, err := services.ListServices(r.Context(), models.ServiceFilter{
			Status: models.ServiceStatusActive,
			Query:  query,
		})
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateServiceHandler creates a service in pending_approval
// Used by: POST /api/services
func CreateServiceHandler(services store.ServiceStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		var req CreateServiceRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		svc := &models.Service{
			Title:        strings.TrimSpace(req.Title),
			Description:  req.Description,
			Category:     strings.TrimSpace(req.Category),
			Price:        req.Price,
			Location:     req.Location,
			Availability: req.Availability,
			ImageURL:     req.ImageURL,
			Status:       models.ServiceStatusPendingApproval,
			ProviderID:   userID,
		}
		if err := services.CreateService(r.Context(), svc); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		logger.Info("service created", zap.Int64("service_id", svc.ID), zap.Int64("provider_id", userID))
		httputil.WriteJSON(w, http.StatusCreated, svc)
	}
}

// GetServiceHandler returns one service. Services that are not active are
// reported missing to everyone but their provider and moderators.
// Used by: GET /api/services/{id}
func GetServiceHandler(st store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		svc, err := st.GetService(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if svc.Status != models.ServiceStatusActive && !canSeeHidden(r, st, svc) {
			httputil.WriteError(w, logger, errors.NotFound("Service not found", nil))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, svc)
	}
}

func canSeeHidden(r *http.Request, users store.UserStore, svc *models.Service) bool {
	callerID, ok := auth.UserID(r.Context())
	if !ok {
		return false
	}
	if callerID == svc.ProviderID {
		return true
	}
	u, err := users.GetUser(r.Context(), callerID)
	return err == nil && models.IsModerator(u.Role)
}

// RequestServiceHandler files a request to engage an active service
// Used by: POST /api/services/{id}/request
func RequestServiceHandler(services store.ServiceStore, logger *zap.Logger) http.HandlerFunc {
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

		var req RequestServiceRequest
		if r.ContentLength != 0 {
			if err := httputil.Decode(r, &req); err != nil {
				httputil.WriteError(w, logger, err)
				return
			}
		}

		sr, err := services.CreateServiceRequest(r.Context(), id, userID, req.Message)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, sr)
	}
}

// ApproveServiceHandler publishes a pending service and notifies its
// provider. Mounted behind the moderator check.
// Used by: POST /api/services/{id}/approve
func ApproveServiceHandler(services store.ServiceStore, broker events.Broker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if err := services.SetServiceStatus(r.Context(), id, models.ServiceStatusActive); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		svc, err := services.GetService(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		events.Emit(r.Context(), broker, logger, events.TypeServiceApproved, svc, svc.ProviderID)
		logger.Info("service approved", zap.Int64("service_id", id))
		httputil.WriteJSON(w, http.StatusOK, svc)
	}
}
