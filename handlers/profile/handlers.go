package profile

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

// Status values reported for a profile.
const (
	StatusActive     = "active"
	StatusIncomplete = "incomplete"
)

// StatusResponse describes how complete a member's profile is.
type StatusResponse struct {
	Status   string   `json:"status"`
	Percent  int      `json:"percent"`
	Missing  []string `json:"missing"`
	Complete bool     `json:"complete"`
}

type requirement struct {
	name    string
	present func(u *models.User) bool
}

var studentRequirements = []requirement{
	{"firstName", func(u *models.User) bool { return filled(u.FirstName) }},
	{"lastName", func(u *models.User) bool { return filled(u.LastName) }},
	{"profileImageUrl", func(u *models.User) bool { return filled(u.ProfileImageURL) }},
	{"university", func(u *models.User) bool { return filled(u.University) }},
	{"field", func(u *models.User) bool { return filled(u.Field) }},
	{"bio", func(u *models.User) bool { return filled(u.Bio) }},
	{"skills", func(u *models.User) bool { return len(u.Skills) > 0 }},
}

// Companies and staff are not expected to list a university or skills.
var organisationRequirements = []requirement{
	{"firstName", func(u *models.User) bool { return filled(u.FirstName) }},
	{"profileImageUrl", func(u *models.User) bool { return filled(u.ProfileImageURL) }},
	{"location", func(u *models.User) bool { return filled(u.Location) }},
	{"bio", func(u *models.User) bool { return filled(u.Bio) }},
}

// Completion evaluates u against the fields expected for its role.
func Completion(u *models.User) StatusResponse {
	reqs := studentRequirements
	if u.Role != models.RoleStudent && u.Role != models.RoleMentor {
		reqs = organisationRequirements
	}

	resp := StatusResponse{Missing: []string{}}
	for _, req := range reqs {
		if !req.present(u) {
			resp.Missing = append(resp.Missing, req.name)
		}
	}
	resp.Percent = (len(reqs) - len(resp.Missing)) * 100 / len(reqs)
	resp.Complete = len(resp.Missing) == 0
	resp.Status = StatusIncomplete
	if resp.Complete {
		resp.Status = StatusActive
	}
	return resp
}

// GetMyStatusHandler reports the caller's profile completion
// Used by: GET /api/me/status
func GetMyStatusHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := auth.CurrentUser(r, users)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, Completion(u))
	}
}

// GetStatusHandler reports another member's profile completion
// Used by: GET /api/users/{id}/status
func GetStatusHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
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
		httputil.WriteJSON(w, http.StatusOK, Completion(u))
	}
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
