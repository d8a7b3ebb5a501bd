package user

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

// Invalidator drops cached views that embed user names.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// UpdateProfileHandler applies a partial profile update for the caller
// Used by: PUT /api/users/profile
func UpdateProfileHandler(users store.UserStore, feed Invalidator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		var upd models.ProfileUpdate
		if err := httputil.Decode(r, &upd); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if upd.Skills != nil {
			upd.Skills = normalizeSkills(upd.Skills)
		}

		u, err := users.UpdateUserProfile(r.Context(), userID, upd)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if upd.FirstName != nil || upd.LastName != nil {
			feed.Invalidate(r.Context())
		}
		httputil.WriteJSON(w, http.StatusOK, u)
	}
}

// SearchUsersHandler searches users by name, field or university
// Used by: GET /api/users/search?q=
func SearchUsersHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			httputil.WriteJSON(w, http.StatusOK, []models.User{})
			return
		}
		results, err := users.SearchUsers(r.Context(), query)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		for i := range results {
			results[i] = results[i].Public()
		}
		httputil.WriteJSON(w, http.StatusOK, results)
	}
}

// GetUserHandler returns a public profile. Only the owner sees the email.
// Used by: GET /api/users/{id}
func GetUserHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		u, err := users.GetUser(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if callerID, _ := auth.UserID(r.Context()); callerID != u.ID {
			*u = u.Public()
		}
		httputil.WriteJSON(w, http.StatusOK, u)
	}
}

// normalizeSkills trims entries and drops blanks and case-insensitive
// duplicates, keeping the first spelling.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
