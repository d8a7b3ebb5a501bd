package postgres

import (
	"context"
	"strings"

	"github.com/lib/pq"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	u.Skills = nonNil(u.Skills)

	err := s.db.QueryRowxContext(ctx, InsertUserQuery,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.ProfileImageURL, u.Role,
		u.University, u.Field, u.YearOfStudy, u.Location, u.Bio, u.Skills,
	).Scan(&u.ID, &u.Connections, &u.CreatedAt, &u.UpdatedAt)
	return mapErr(err, "User not found")
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.db.GetContext(ctx, &u, SelectUsersQuery+` WHERE id = $1`, id); err != nil {
		return nil, mapErr(err, "User not found")
	}
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []int64) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.SelectContext(ctx, &users, SelectUsersByIDsQuery, pq.Array(ids)); err != nil {
		return nil, mapErr(err, "User not found")
	}
	return users, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.GetContext(ctx, &u, SelectUsersQuery+` WHERE LOWER(email) = LOWER($1)`, email); err != nil {
		return nil, mapErr(err, "User not found")
	}
	return &u, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	var skills interface{}
	if upd.Skills != nil {
		skills = pq.StringArray(upd.Skills)
	}

	var u models.User
	err := s.db.GetContext(ctx, &u, UpdateProfileQuery, id,
		upd.FirstName, upd.LastName, upd.University, upd.Field,
		upd.YearOfStudy, upd.Location, upd.Bio, skills,
	)
	if err != nil {
		return nil, mapErr(err, "User not found")
	}
	return &u, nil
}

func (s *Store) SetUserRole(ctx context.Context, id int64, role string) error {
	return s.execOne(ctx, "User not found", UpdateRoleQuery, id, role)
}

func (s *Store) SetProfileImage(ctx context.Context, id int64, url *string) error {
	return s.execOne(ctx, "User not found", UpdateProfileImageQuery, id, url)
}

func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	users := []models.User{}
	query = strings.TrimSpace(query)
	if query == "" {
		return users, nil
	}
	if err := s.db.SelectContext(ctx, &users, SearchUsersQuery, likePattern(query)); err != nil {
		return nil, mapErr(err, "User not found")
	}
	return users, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, ListUsersQuery); err != nil {
		return nil, mapErr(err, "User not found")
	}
	return users, nil
}

// execOne runs an UPDATE/DELETE that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, notFound, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err, notFound)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound(notFound, nil)
	}
	return nil
}
