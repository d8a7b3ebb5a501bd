// Package admin serves the moderation panel. Every route sits behind
// RequireModerator; role changes additionally need RequireAdmin.
package admin

import (
	"net/http"

	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/services/stats"
	"skilllink/backend/store"
)

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin assistant_admin mentor company"`
}

// RequireModerator rejects callers that are not admin or assistant_admin.
func RequireModerator(users store.UserStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireRole(users, logger, "Moderator access required", models.IsModerator)
}

// RequireAdmin rejects callers that are not admin.
func RequireAdmin(users store.UserStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireRole(users, logger, "Admin access required", func(role string) bool {
		return role == models.RoleAdmin
	})
}

func requireRole(users store.UserStore, logger *zap.Logger, message string, allowed func(string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := auth.CurrentUser(r, users)
			if err != nil {
				httputil.WriteError(w, logger, err)
				return
			}
			if !allowed(u.Role) {
				httputil.WriteError(w, logger, errors.Forbidden(message, nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PendingServicesHandler lists services waiting for approval
// Used by: GET /api/admin/pending-services
func PendingServicesHandler(services store.ServiceStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := services.ListServices(r.Context(), models.ServiceFilter{Status: models.ServiceStatusPendingApproval})
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// DeleteServiceHandler removes a service and its requests
// Used by: DELETE /api/admin/services/{id}
func DeleteServiceHandler(services store.ServiceStore, dashboard *stats.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if err := services.DeleteService(r.Context(), id); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		dashboard.Invalidate(r.Context())
		logger.Info("service deleted", zap.Int64("service_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServiceRequestsHandler lists service requests, pending by default
// Used by: GET /api/admin/service-requests?status=
func ServiceRequestsHandler(services store.ServiceStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		switch status {
		case "":
			status = models.RequestPending
		case "all":
			status = ""
		case models.RequestPending, models.RequestApproved, models.RequestRejected, models.RequestCompleted:
		default:
			httputil.WriteError(w, logger, errors.InvalidInput("Unknown service request status", nil))
			return
		}

		list, err := services.ListServiceRequests(r.Context(), models.ServiceRequestFilter{Status: status})
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// SetServiceRequestStatusHandler moves a service request along its lifecycle
// Used by: POST /api/admin/service-requests/{id}/approve|reject|complete
func SetServiceRequestStatusHandler(services store.ServiceStore, status string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		sr, err := services.SetServiceRequestStatus(r.Context(), id, status)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		logger.Info("service request updated", zap.Int64("request_id", id), zap.String("status", status))
		httputil.WriteJSON(w, http.StatusOK, sr)
	}
}

// UsersHandler lists every user, newest first
// Used by: GET /api/admin/users
func UsersHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.ListUsers(r.Context())
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// SetRoleHandler changes a user's role. Admins cannot demote themselves.
// Used by: POST /api/admin/users/{id}/role
func SetRoleHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		var req RoleRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if id == callerID && req.Role != models.RoleAdmin {
			httputil.WriteError(w, logger, errors.InvalidInput("Cannot remove your own admin role", nil))
			return
		}

		if err := users.SetUserRole(r.Context(), id, req.Role); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		u, err := users.GetUser(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		logger.Info("user role changed", zap.Int64("user_id", id), zap.String("role", req.Role), zap.Int64("by", callerID))
		httputil.WriteJSON(w, http.StatusOK, u)
	}
}

// StatsHandler returns the dashboard counters
// Used by: GET /api/admin/stats
func StatsHandler(dashboard *stats.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := dashboard.Get(r.Context())
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, s)
	}
}
