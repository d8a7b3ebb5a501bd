package chat

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/events"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required,notblank,max=5000"`
}

// ChatPreview is one row of the conversation list.
type ChatPreview struct {
	OtherUserID   int64     `json:"otherUserId"`
	Name          string    `json:"name"`
	Image         *string   `json:"image"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

// SendMessageHandler stores a direct message and notifies both parties
// Used by: POST /api/messages
func SendMessageHandler(messages store.MessageStore, broker events.Broker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		var req SendMessageRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if req.ReceiverID == userID {
			httputil.WriteError(w, logger, errors.InvalidInput("Cannot message yourself", nil))
			return
		}

		msg := &models.Message{
			SenderID:   userID,
			ReceiverID: req.ReceiverID,
			Content:    strings.TrimSpace(req.Content),
		}
		if err := messages.CreateMessage(r.Context(), msg); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		events.Emit(r.Context(), broker, logger, events.TypeNewMessage, msg, msg.SenderID, msg.ReceiverID)
		httputil.WriteJSON(w, http.StatusCreated, msg)
	}
}

// GetMessagesHandler returns every message the caller sent or received
// Used by: GET /api/messages
func GetMessagesHandler(messages store.MessageStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		list, err := messages.ListUserMessages(r.Context(), userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// GetChatsHandler groups the caller's messages into one preview per
// conversation partner, most recent conversation first
// Used by: GET /api/conversations
func GetChatsHandler(st store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		list, err := st.ListUserMessages(r.Context(), userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		// list is newest first, so the first message seen per partner is the latest.
		previews := []ChatPreview{}
		index := make(map[int64]int)
		for _, m := range list {
			otherID := m.ReceiverID
			if otherID == userID {
				otherID = m.SenderID
			}
			i, seen := index[otherID]
			if !seen {
				i = len(previews)
				index[otherID] = i
				previews = append(previews, ChatPreview{
					OtherUserID:   otherID,
					LastMessage:   m.Content,
					LastMessageAt: m.CreatedAt,
				})
			}
			if m.ReceiverID == userID && !m.Read {
				previews[i].UnreadCount++
			}
		}

		ids := make([]int64, len(previews))
		for i, p := range previews {
			ids[i] = p.OtherUserID
		}
		users, err := st.GetUsers(r.Context(), ids)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		for _, u := range users {
			i := index[u.ID]
			previews[i].Name = u.DisplayName()
			previews[i].Image = u.ProfileImageURL
		}
		httputil.WriteJSON(w, http.StatusOK, previews)
	}
}

// GetChatMessagesHandler returns the conversation with another user, oldest first
// Used by: GET /api/conversations/{userId}
func GetChatMessagesHandler(messages store.MessageStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		otherID, err := httputil.PathID(r, "userId")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		list, err := messages.GetConversation(r.Context(), userID, otherID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	}
}

// MarkMessageReadHandler marks one received message as read
// Used by: POST /api/messages/{id}/read
func MarkMessageReadHandler(messages store.MessageStore, logger *zap.Logger) http.HandlerFunc {
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
		msg, err := messages.GetMessage(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if msg.ReceiverID != userID {
			httputil.WriteError(w, logger, errors.Forbidden("Only the receiver can mark a message as read", nil))
			return
		}
		if err := messages.MarkMessageRead(r.Context(), id); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MarkMessagesAsReadHandler marks everything another user sent the caller as read
// Used by: POST /api/conversations/{userId}/read
func MarkMessagesAsReadHandler(messages store.MessageStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		otherID, err := httputil.PathID(r, "userId")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		n, err := messages.MarkConversationRead(r.Context(), userID, otherID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]int64{"marked": n})
	}
}

// UnreadCountHandler reports how many received messages are unread
// Used by: GET /api/messages/unread-count
func UnreadCountHandler(messages store.MessageStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		n, err := messages.CountUnread(r.Context(), userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": n})
	}
}
