package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"skilllink/backend/errors"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

type SignupRequest struct {
	Email     string  `json:"email" validate:"required,email,max=254"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Role      string  `json:"role" validate:"omitempty,oneof=student mentor company"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	ID    int64        `json:"id"`
	Email string       `json:"email"`
	Token string       `json:"token"`
	Role  string       `json:"role"`
	User  *models.User `json:"user"`
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignupHandler handles user registration
// Used by: /api/auth/signup
func SignupHandler(users store.UserStore, tokens *TokenManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httputil.WriteError(w, logger, errors.Internal("Error hashing password", err))
			return
		}

		role := req.Role
		if role == "" {
			role = models.RoleStudent
		}
		u := &models.User{
			Email:        NormalizeEmail(req.Email),
			PasswordHash: string(hashedPassword),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Role:         role,
		}
		if err := users.CreateUser(r.Context(), u); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		token, err := tokens.GenerateToken(u.ID, u.Role)
		if err != nil {
			httputil.WriteError(w, logger, errors.Internal("Error generating token", err))
			return
		}

		logger.Info("user signed up", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
		httputil.WriteJSON(w, http.StatusCreated, LoginResponse{
			ID:    u.ID,
			Email: u.Email,
			Token: token,
			Role:  u.Role,
			User:  u,
		})
	}
}

// LoginHandler handles user authentication
// Used by: /api/auth/login
func LoginHandler(users store.UserStore, tokens *TokenManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := httputil.Decode(r, &req); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		u, err := users.GetUserByEmail(r.Context(), NormalizeEmail(req.Email))
		if err != nil {
			if errors.IsType(err, errors.ErrTypeNotFound) {
				httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			httputil.WriteError(w, logger, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
			httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := tokens.GenerateToken(u.ID, u.Role)
		if err != nil {
			httputil.WriteError(w, logger, errors.Internal("Error generating token", err))
			return
		}

		httputil.WriteJSON(w, http.StatusOK, LoginResponse{
			ID:    u.ID,
			Email: u.Email,
			Token: token,
			Role:  u.Role,
			User:  u,
		})
	}
}

// CurrentUserHandler returns the authenticated user
// Used by: GET /api/auth/user
func CurrentUserHandler(users store.UserStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := CurrentUser(r, users)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, u)
	}
}

// CurrentUser loads the user behind the request's token. A token for a
// deleted account is treated as unauthenticated.
func CurrentUser(r *http.Request, users store.UserStore) (*models.User, error) {
	userID, ok := UserID(r.Context())
	if !ok {
		return nil, errors.Unauthorized("Unauthorized", nil)
	}
	u, err := users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeNotFound) {
			return nil, errors.Unauthorized("Unauthorized", err)
		}
		return nil, err
	}
	return u, nil
}

// MustUserID returns the caller id; routes behind Middleware always have one.
func MustUserID(r *http.Request) (int64, error) {
	userID, ok := UserID(r.Context())
	if !ok {
		return 0, errors.Unauthorized("Unauthorized", nil)
	}
	return userID, nil
}
