package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	RoleStudent        = "student"
	RoleAdmin          = "admin"
	RoleAssistantAdmin = "assistant_admin"
	RoleMentor         = "mentor"
	RoleCompany        = "company"
)

// AllRoles lists every role a user can hold.
var AllRoles = []string{RoleStudent, RoleAdmin, RoleAssistantAdmin, RoleMentor, RoleCompany}

// IsModerator reports whether the role may use the admin panel.
func IsModerator(role string) bool {
	return role == RoleAdmin || role == RoleAssistantAdmin
}

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a member of the network. PasswordHash never leaves the server.
type User struct {
	ID              int64          `json:"id" db:"id"`
	Email           string         `json:"email,omitempty" db:"email"`
	PasswordHash    string         `json:"-" db:"password_hash"`
	FirstName       *string        `json:"firstName" db:"first_name"`
	LastName        *string        `json:"lastName" db:"last_name"`
	ProfileImageURL *string        `json:"profileImageUrl" db:"profile_image_url"`
	Role            string         `json:"role" db:"role"`
	University      *string        `json:"university" db:"university"`
	Field           *string        `json:"field" db:"field"`
	YearOfStudy     *int           `json:"yearOfStudy" db:"year_of_study"`
	Location        *string        `json:"location" db:"location"`
	Bio             *string        `json:"bio" db:"bio"`
	Skills          pq.StringArray `json:"skills" db:"skills"`
	Connections     int            `json:"connections" db:"connections"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// Public returns the profile as other members see it, without the email.
func (u User) Public() User {
	u.Email = ""
	return u
}

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	return FullName(u.FirstName, u.LastName)
}

// FullName joins optional name parts the same way the SQL queries do.
func FullName(first, last *string) string {
	var parts []string
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	return strings.Join(parts, " ")
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched; a nil Skills slice keeps the current skills.
type ProfileUpdate struct {
	FirstName   *string  `json:"firstName" validate:"omitempty,max=100"`
	LastName    *string  `json:"lastName" validate:"omitempty,max=100"`
	University  *string  `json:"university" validate:"omitempty,max=200"`
	Field       *string  `json:"field" validate:"omitempty,max=200"`
	YearOfStudy *int     `json:"yearOfStudy" validate:"omitempty,min=1,max=10"`
	Location    *string  `json:"location" validate:"omitempty,max=200"`
	Bio         *string  `json:"bio" validate:"omitempty,max=2000"`
	Skills      []string `json:"skills" validate:"omitempty,max=30,dive,min=1,max=50"`
}
