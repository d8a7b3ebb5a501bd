package postgres

import (
	"database/sql"
	"fmt"
	"io/fs"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilllink/backend/errors"
)

func TestWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("creator_id = ?", int64(4))
	w.add("(title ILIKE ? OR category ILIKE ?)", "%go%")

	assert.Equal(t, " WHERE creator_id = $1 AND (title ILIKE $2 OR category ILIKE $2)", w.String())
	assert.Equal(t, []interface{}{int64(4), "%go%"}, w.args)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%go%", likePattern("go"))
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% off_now"))
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    errors.ErrorType
		message string
	}{
		{"no rows", sql.ErrNoRows, errors.ErrTypeNotFound, "Project not found"},
		{"unique email", &pq.Error{Code: "23505", Constraint: "users_email_key"}, errors.ErrTypeConflict, "Email already exists"},
		{"unique other", &pq.Error{Code: "23505", Constraint: "whatever"}, errors.ErrTypeConflict, "Record already exists"},
		{"missing receiver", &pq.Error{Code: "23503", Constraint: "messages_receiver_id_fkey"}, errors.ErrTypeNotFound, "Receiver not found"},
		{"check", &pq.Error{Code: "23514"}, errors.ErrTypeInvalidInput, "Invalid value"},
		{"wrapped", fmt.Errorf("scan: %w", sql.ErrNoRows), errors.ErrTypeNotFound, "Project not found"},
		{"other", fmt.Errorf("boom"), errors.ErrTypeInternal, "Database error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapErr(tt.err, "Project not found")
			de, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, de.Type)
			assert.Equal(t, tt.message, de.Message)
		})
	}

	assert.NoError(t, mapErr(nil, "x"))
	domain := errors.Forbidden("nope", nil)
	assert.Same(t, domain, mapErr(domain, "x"))
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 5)
}
