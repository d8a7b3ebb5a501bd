package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorMessage(t *testing.T) {
	cause := stderrors.New("connection refused")

	assert.Equal(t, "NOT_FOUND: project not found", NotFound("project not found", nil).Error())
	assert.Equal(t, "INTERNAL: loading user: connection refused", Internal("loading user", cause).Error())
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal("creating project", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.NotEmpty(t, err.StackTrace())
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Conflict("already liked", nil))

	de, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrTypeConflict, de.Type)
	assert.Equal(t, ErrTypeConflict, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrTypeConflict))
	assert.False(t, IsType(wrapped, ErrTypeNotFound))

	assert.Equal(t, ErrTypeInternal, TypeOf(stderrors.New("plain")))
}
