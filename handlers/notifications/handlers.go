package notifications

import (
	"net/http"

	"go.uber.org/zap"

	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

// NotificationResponse counts what is waiting for the caller. The websocket
// hub pushes the individual events; this is the catch-up view after a
// reconnect.
type NotificationResponse struct {
	UnreadMessages      int `json:"unreadMessages"`
	PendingConnections  int `json:"pendingConnections"`
	PendingApplications int `json:"pendingApplications"`
}

// Source is what the summary reads from.
type Source interface {
	store.MessageStore
	store.ConnectionStore
	store.JobStore
}

// GetNotificationsHandler returns the caller's notification counters
// Used by: GET /api/notifications
func GetNotificationsHandler(src Source, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		ctx := r.Context()

		var resp NotificationResponse
		if resp.UnreadMessages, err = src.CountUnread(ctx, userID); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		incoming, err := src.ListIncomingRequests(ctx, userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		resp.PendingConnections = len(incoming)

		// Applications waiting on jobs the caller posted.
		jobs, err := src.ListJobOffers(ctx, models.JobFilter{PosterID: userID})
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		for _, j := range jobs {
			apps, err := src.ListJobApplications(ctx, j.ID)
			if err != nil {
				httputil.WriteError(w, logger, err)
				return
			}
			for _, a := range apps {
				if a.Status == models.ApplicationPending {
					resp.PendingApplications++
				}
			}
		}

		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}
