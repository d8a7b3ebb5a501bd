package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store/memory"
)

func TestSeeder_Demo(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	s, err := New(st, zap.NewNop(), 1)
	require.NoError(t, err)

	created, err := s.Demo(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DemoAccounts), created)

	admin, err := st.GetUserByEmail(ctx, "admin@skilllink.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(DemoPassword)))

	created, err = s.Demo(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "demo accounts are created once")
}

func TestSeeder_Users(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	s, err := New(st, zap.NewNop(), 42)
	require.NoError(t, err)

	res, err := s.Users(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, res.UsersCreated+res.FailedAttempts)
	assert.Equal(t, res.UsersCreated, res.Students+res.Mentors+res.Companies)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, res.UsersCreated)
	for _, u := range users {
		assert.GreaterOrEqual(t, len(u.Skills), 2)
		assert.NotNil(t, u.University)
	}

	jobs, err := st.ListJobOffers(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, res.Jobs)
	assert.Equal(t, res.Companies+res.Mentors, res.Jobs)
}

func TestSeeder_Users_CountBounds(t *testing.T) {
	s, err := New(memory.New(), zap.NewNop(), 1)
	require.NoError(t, err)

	for _, n := range []int{0, MaxCount + 1} {
		_, err := s.Users(context.Background(), n)
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput), "count %d", n)
	}
}
