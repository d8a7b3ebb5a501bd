package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skilllink/backend/models"
)

func str(s string) *string { return &s }

func TestCompletion(t *testing.T) {
	tests := []struct {
		name        string
		user        models.User
		wantPercent int
		wantMissing []string
	}{
		{
			name:        "empty student",
			user:        models.User{Role: models.RoleStudent},
			wantPercent: 0,
			wantMissing: []string{"firstName", "lastName", "profileImageUrl", "university", "field", "bio", "skills"},
		},
		{
			name: "complete mentor",
			user: models.User{
				Role: models.RoleMentor, FirstName: str("Grace"), LastName: str("Hopper"),
				ProfileImageURL: str("/uploads/profile_pictures/1.png"), University: str("Yale"),
				Field: str("Mathematics"), Bio: str("Compilers"), Skills: []string{"COBOL"},
			},
			wantPercent: 100,
			wantMissing: []string{},
		},
		{
			name:        "blank strings count as missing",
			user:        models.User{Role: models.RoleCompany, FirstName: str("Acme"), Location: str("  "), Bio: str("Widgets")},
			wantPercent: 50,
			wantMissing: []string{"profileImageUrl", "location"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Completion(&tt.user)
			assert.Equal(t, tt.wantPercent, got.Percent)
			assert.Equal(t, tt.wantMissing, got.Missing)
			assert.Equal(t, tt.wantPercent == 100, got.Complete)
			if got.Complete {
				assert.Equal(t, StatusActive, got.Status)
			} else {
				assert.Equal(t, StatusIncomplete, got.Status)
			}
		})
	}
}
