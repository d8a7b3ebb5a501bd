package connection

import (
	"net/http"

	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/events"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/services/suggestions"
	"skilllink/backend/store"
)

// GetConnectionsHandler returns the caller's accepted connections
// Used by: GET /api/connections
func GetConnectionsHandler(connections store.ConnectionStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		list, err := connections.ListConnections(r.Context(), userID, models.ConnectionAccepted)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// GetPendingHandler returns requests waiting on the caller
// Used by: GET /api/connections/pending
func GetPendingHandler(connections store.ConnectionStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		list, err := connections.ListIncomingRequests(r.Context(), userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateConnectionHandler sends a connection request and notifies the receiver
// Used by: POST /api/connections
func CreateConnectionHandler(connections store.ConnectionStore, broker events.Broker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		var req ConnectionRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		c, err := connections.CreateConnection(r.Context(), userID, req.ReceiverID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		events.Emit(r.Context(), broker, logger, events.TypeConnectionRequest, c, c.ReceiverID)
		httputil.WriteJSON(w, http.StatusCreated, c)
	}
}

// RespondConnectionHandler lets the receiver accept or reject a request
// Used by: POST /api/connections/{id}/accept|reject
func RespondConnectionHandler(connections store.ConnectionStore, broker events.Broker, status string, logger *zap.Logger) http.HandlerFunc {
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

		existing, err := connections.GetConnection(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if existing.ReceiverID != userID {
			httputil.WriteError(w, logger, errors.Forbidden("Only the receiver can respond to this request", nil))
			return
		}

		c, err := connections.RespondConnection(r.Context(), id, status)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if c.Status == models.ConnectionAccepted {
			events.Emit(r.Context(), broker, logger, events.TypeConnectionAccepted, c, c.RequesterID)
		}
		httputil.WriteJSON(w, http.StatusOK, c)
	}
}

// DeleteConnectionHandler removes a connection; either party may do it
// Used by: DELETE /api/connections/{id}
func DeleteConnectionHandler(connections store.ConnectionStore, logger *zap.Logger) http.HandlerFunc {
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

		c, err := connections.GetConnection(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if !c.Involves(userID) {
			httputil.WriteError(w, logger, errors.NotFound("Connection not found", nil))
			return
		}
		if err := connections.DeleteConnection(r.Context(), id); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetSuggestionsHandler ranks users the caller might want to connect with
// Used by: GET /api/connections/suggestions
func GetSuggestionsHandler(src suggestions.Source, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		matches, err := suggestions.Suggest(r.Context(), src, userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, matches)
	}
}
