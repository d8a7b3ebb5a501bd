// Package httputil holds the JSON helpers shared by the handler packages:
// response writing, error mapping, body decoding and path parameters.
package httputil

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skilllink/backend/errors"
)

const maxBodyBytes = 1 << 20

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// StatusOf maps a domain error type to an HTTP status.
func StatusOf(t errors.ErrorType) int {
	switch t {
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	case errors.ErrTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrTypeForbidden:
		return http.StatusForbidden
	case errors.ErrTypeConflict:
		return http.StatusConflict
	case errors.ErrTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err. Validation errors carry their fields; domain errors
// their message; anything else is logged and reported as a generic 500.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *ValidationError
	if stderrors.As(err, &verr) {
		WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
		return
	}

	de, ok := errors.As(err)
	if !ok {
		de = errors.Internal("Internal server error", err)
	}
	status := StatusOf(de.Type)
	if status >= http.StatusInternalServerError {
		logger.Error(de.Message, zap.Error(err), zap.ByteString("stack", de.StackTrace()))
	}
	Error(w, status, de.Message)
}

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return errors.InvalidInput("Invalid request body", err)
	}
	return ValidateStruct(dst)
}

// PathID parses the named mux variable as a positive id.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidInput("Invalid "+name, err)
	}
	return id, nil
}

// QueryID parses an optional numeric query parameter; absent means 0.
func QueryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidInput("Invalid "+name, err)
	}
	return id, nil
}
