package suggestions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilllink/backend/models"
	"skilllink/backend/store/memory"
)

func str(s string) *string { return &s }

func TestScore(t *testing.T) {
	me := &models.User{
		Skills:     []string{"Go", "SQL", "React", "Docker"},
		University: str("MIT"),
		Field:      str("Computer Science"),
	}

	tests := []struct {
		name       string
		other      *models.User
		wantScore  float64
		wantShared []string
	}{
		{
			name:       "nothing in common",
			other:      &models.User{Skills: []string{"Painting"}},
			wantScore:  0,
			wantShared: []string{},
		},
		{
			name:       "half the skills",
			other:      &models.User{Skills: []string{"go", "sql"}},
			wantScore:  0.25,
			wantShared: []string{"Go", "SQL"},
		},
		{
			name:       "same university only",
			other:      &models.User{University: str(" mit ")},
			wantScore:  0.3,
			wantShared: []string{},
		},
		{
			name: "everything",
			other: &models.User{
				Skills:     []string{"Go", "SQL", "React", "Docker", "Rust"},
				University: str("MIT"),
				Field:      str("computer science"),
			},
			wantScore:  1,
			wantShared: []string{"Go", "SQL", "React", "Docker"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, shared := Score(me, tt.other)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantShared, shared)
		})
	}
}

func TestScore_NoSkills(t *testing.T) {
	score, _ := Score(&models.User{Skills: []string{" "}}, &models.User{Skills: []string{"Go"}})
	assert.Zero(t, score)
}

func TestSuggest(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	add := func(email string, skills []string, university string) *models.User {
		u := &models.User{Email: email, PasswordHash: "x", Skills: skills}
		if university != "" {
			u.University = str(university)
		}
		require.NoError(t, st.CreateUser(ctx, u))
		return u
	}

	me := add("me@example.com", []string{"Go", "SQL"}, "MIT")
	strong := add("strong@example.com", []string{"Go", "SQL"}, "MIT")
	weak := add("weak@example.com", []string{"Go"}, "")
	add("none@example.com", []string{"Cooking"}, "")
	pending := add("pending@example.com", []string{"Go", "SQL"}, "MIT")
	rejected := add("rejected@example.com", []string{"SQL"}, "")

	_, err := st.CreateConnection(ctx, me.ID, pending.ID)
	require.NoError(t, err)
	c, err := st.CreateConnection(ctx, rejected.ID, me.ID)
	require.NoError(t, err)
	_, err = st.RespondConnection(ctx, c.ID, models.ConnectionRejected)
	require.NoError(t, err)

	matches, err := Suggest(ctx, st, me.ID)
	require.NoError(t, err)

	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{strong.ID, weak.ID, rejected.ID}, ids)
	assert.InDelta(t, 0.8, matches[0].Score, 1e-9)
	assert.InDelta(t, 0.25, matches[1].Score, 1e-9)
}

func TestSuggest_Limit(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	me := &models.User{Email: "me@example.com", PasswordHash: "x", Skills: []string{"Go"}}
	require.NoError(t, st.CreateUser(ctx, me))
	for i := 0; i < Limit+5; i++ {
		u := &models.User{Email: string(rune('a'+i)) + "@example.com", PasswordHash: "x", Skills: []string{"go"}}
		require.NoError(t, st.CreateUser(ctx, u))
	}

	matches, err := Suggest(ctx, st, me.ID)
	require.NoError(t, err)
	assert.Len(t, matches, Limit)
}
