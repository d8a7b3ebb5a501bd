// Package memory is an in-process implementation of store.Store. It backs the
// handler tests and STORE=memory local runs; nothing is persisted.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

var _ store.Store = (*Store)(nil)

type likeKey struct {
	announcementID int64
	userID         int64
}

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq int64

	users         map[int64]*models.User
	projects      map[int64]*models.Project
	participants  map[int64]*models.ProjectParticipant
	jobs          map[int64]*models.JobOffer
	applications  map[int64]*models.JobApplication
	services      map[int64]*models.Service
	requests      map[int64]*models.ServiceRequest
	announcements map[int64]*models.Announcement
	likes         map[likeKey]time.Time
	comments      map[int64]*models.Comment
	messages      map[int64]*models.Message
	connections   map[int64]*models.Connection
}

func New() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[int64]*models.User),
		projects:      make(map[int64]*models.Project),
		participants:  make(map[int64]*models.ProjectParticipant),
		jobs:          make(map[int64]*models.JobOffer),
		applications:  make(map[int64]*models.JobApplication),
		services:      make(map[int64]*models.Service),
		requests:      make(map[int64]*models.ServiceRequest),
		announcements: make(map[int64]*models.Announcement),
		likes:         make(map[likeKey]time.Time),
		comments:      make(map[int64]*models.Comment),
		messages:      make(map[int64]*models.Message),
		connections:   make(map[int64]*models.Connection),
	}
}

// SetClock replaces the time source. Tests use it to control ordering and
// the active-user window.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// nextID hands out ids from one sequence shared by all tables. Callers hold mu.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return errors.Conflict("Email already exists", nil)
		}
	}

	now := s.now()
	u.ID = s.nextID()
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	u.Skills = cloneStrings(u.Skills)
	u.Connections = 0
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.NotFound("User not found", nil)
	}
	return copyUser(u), nil
}

func (s *Store) GetUsers(ctx context.Context, ids []int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, errors.NotFound("User not found", nil)
}

func (s *Store) UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.NotFound("User not found", nil)
	}
	if upd.FirstName != nil {
		u.FirstName = strPtr(*upd.FirstName)
	}
	if upd.LastName != nil {
		u.LastName = strPtr(*upd.LastName)
	}
	if upd.University != nil {
		u.University = strPtr(*upd.University)
	}
	if upd.Field != nil {
		u.Field = strPtr(*upd.Field)
	}
	if upd.YearOfStudy != nil {
		year := *upd.YearOfStudy
		u.YearOfStudy = &year
	}
	if upd.Location != nil {
		u.Location = strPtr(*upd.Location)
	}
	if upd.Bio != nil {
		u.Bio = strPtr(*upd.Bio)
	}
	if upd.Skills != nil {
		u.Skills = cloneStrings(upd.Skills)
	}
	u.UpdatedAt = s.now()
	return copyUser(u), nil
}

func (s *Store) SetUserRole(ctx context.Context, id int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return errors.NotFound("User not found", nil)
	}
	u.Role = role
	u.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetProfileImage(ctx context.Context, id int64, url *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return errors.NotFound("User not found", nil)
	}
	if url == nil {
		u.ProfileImageURL = nil
	} else {
		u.ProfileImageURL = strPtr(*url)
	}
	u.UpdatedAt = s.now()
	return nil
}

func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	if strings.TrimSpace(query) == "" {
		return users, nil
	}
	for _, u := range s.users {
		if containsFold(deref(u.FirstName), query) ||
			containsFold(deref(u.LastName), query) ||
			containsFold(deref(u.Field), query) ||
			containsFold(deref(u.University), query) {
			users = append(users, *copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return newerFirst(users[i].CreatedAt, users[i].ID, users[j].CreatedAt, users[j].ID)
	})
	return users, nil
}

func (s *Store) Stats(ctx context.Context) (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-store.ActiveUserWindow)
	stats := &models.Stats{
		TotalUsers:    len(s.users),
		TotalProjects: len(s.projects),
		TotalServices: len(s.services),
		TotalJobs:     len(s.jobs),
		TotalMessages: len(s.messages),
	}
	for _, u := range s.users {
		if !u.UpdatedAt.Before(cutoff) {
			stats.ActiveUsers++
		}
	}
	for _, p := range s.projects {
		if p.Status == models.ProjectStatusActive {
			stats.ActiveProjects++
		}
	}
	for _, svc := range s.services {
		if svc.Status == models.ServiceStatusPendingApproval {
			stats.PendingServices++
		}
	}
	for _, c := range s.connections {
		if c.Status == models.ConnectionAccepted {
			stats.TotalConnections++
		}
	}
	return stats, nil
}

// userName returns the display name of a user, or "" when unknown. Callers
// hold mu.
func (s *Store) userName(id int64) string {
	if u, ok := s.users[id]; ok {
		return u.DisplayName()
	}
	return ""
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Skills = cloneStrings(u.Skills)
	return &c
}

func cloneStrings(in []string) pq.StringArray {
	out := make(pq.StringArray, len(in))
	copy(out, in)
	return out
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// newerFirst orders by timestamp descending with the id as tie breaker.
func newerFirst(ti time.Time, idi int64, tj time.Time, idj int64) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi > idj
}

// olderFirst orders by timestamp ascending with the id as tie breaker.
func olderFirst(ti time.Time, idi int64, tj time.Time, idj int64) bool {
	if !ti.Equal(tj) {
		return ti.Before(tj)
	}
	return idi < idj
}
