package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skilllink/backend/errors"
)

type signup struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Name     string   `json:"name" validate:"notblank"`
	Skills   []string `json:"skills" validate:"dive,min=1"`
}

func TestDecode_Validation(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","password":"short","name":"  ","skills":[""]}`))
	var dst signup
	err := Decode(r, &dst)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Equal(t, "name cannot be blank", verr.Fields["name"])
	assert.Contains(t, verr.Fields, "skills[0]")
}

func TestDecode_BadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	var dst signup
	err := Decode(r, &dst)
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{errors.NotFound("Project not found", nil), http.StatusNotFound, "Project not found"},
		{errors.Conflict("Email already exists", nil), http.StatusConflict, "Email already exists"},
		{errors.Forbidden("Forbidden", nil), http.StatusForbidden, "Forbidden"},
		{errors.Unavailable("Database unavailable", nil), http.StatusServiceUnavailable, "Database unavailable"},
		{fmt.Errorf("raw driver failure"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, zap.NewNop(), tt.err)
		assert.Equal(t, tt.status, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, tt.body, body["error"])
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), &ValidationError{Fields: map[string]string{"email": "email is required"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation failed","fields":{"email":"email is required"}}`, rec.Body.String())
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "12", "bad": "x"})

	id, err := PathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = PathID(r, "bad")
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
}
