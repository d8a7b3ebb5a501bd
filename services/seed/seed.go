// Package seed fills a store with demo accounts and fake members, projects,
// services, jobs and announcements.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "testpass123"

// MaxCount bounds one generation request.
const MaxCount = 150

// Predefined arrays for consistent test data
var universities = []string{
	"MIT", "Stanford University", "ETH Zurich", "University of Toronto",
	"Sorbonne University", "TU Munich", "University of Tokyo", "EPFL",
	"University of Cape Town", "National University of Singapore",
}

var fields = []string{
	"Computer Science", "Electrical Engineering", "Design", "Business",
	"Mathematics", "Physics", "Biology", "Economics", "Marketing", "Law",
}

var skills = []string{
	"Go", "Python", "JavaScript", "React", "SQL", "Docker", "Kubernetes",
	"Figma", "Machine Learning", "Data Analysis", "Public Speaking",
	"Project Management", "Copywriting", "Photography", "Excel",
}

var categories = []string{
	"Web Development", "Design", "Research", "Tutoring", "Marketing",
	"Mobile Apps", "Data Science", "Writing", "Video Editing",
}

var jobTypes = []string{
	models.JobTypeInternship, models.JobTypeFullTime, models.JobTypePartTime, models.JobTypeContract,
}

// DemoAccount is a fixed login created by Demo.
type DemoAccount struct {
	Email     string
	Role      string
	FirstName string
	LastName  string
}

var DemoAccounts = []DemoAccount{
	{Email: "admin@skilllink.test", Role: models.RoleAdmin, FirstName: "Ada", LastName: "Admin"},
	{Email: "student@skilllink.test", Role: models.RoleStudent, FirstName: "Sam", LastName: "Student"},
	{Email: "company@skilllink.test", Role: models.RoleCompany, FirstName: "Casey", LastName: "Company"},
}

// Result summarises one run.
type Result struct {
	UsersCreated   int `json:"usersCreated"`
	Students       int `json:"students"`
	Mentors        int `json:"mentors"`
	Companies      int `json:"companies"`
	Projects       int `json:"projects"`
	Services       int `json:"services"`
	Jobs           int `json:"jobs"`
	Announcements  int `json:"announcements"`
	FailedAttempts int `json:"failedAttempts"`
}

type Seeder struct {
	store  store.Store
	logger *zap.Logger
	faker  *gofakeit.Faker
	rng    *rand.Rand
	hash   string
}

// New returns a Seeder whose output is determined by seed.
func New(st store.Store, logger *zap.Logger, seed uint64) (*Seeder, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing demo password: %w", err)
	}
	return &Seeder{
		store:  st,
		logger: logger,
		faker:  gofakeit.New(int64(seed)),
		rng:    rand.New(rand.NewSource(seed)),
		hash:   string(hash),
	}, nil
}

// Demo creates the fixed demo accounts. Existing accounts are left alone.
func (s *Seeder) Demo(ctx context.Context) (int, error) {
	created := 0
	for _, acct := range DemoAccounts {
		first, last := acct.FirstName, acct.LastName
		u := &models.User{
			Email:        acct.Email,
			PasswordHash: s.hash,
			FirstName:    &first,
			LastName:     &last,
			Role:         acct.Role,
		}
		if err := s.store.CreateUser(ctx, u); err != nil {
			if errors.IsType(err, errors.ErrTypeConflict) {
				continue
			}
			return created, fmt.Errorf("error creating %s: %w", acct.Email, err)
		}
		created++
		s.logger.Info("created demo account", zap.String("email", acct.Email), zap.String("role", acct.Role))
	}
	return created, nil
}

// Users creates count fake members with some content each. A member whose
// account cannot be created is counted as a failed attempt and skipped.
func (s *Seeder) Users(ctx context.Context, count int) (*Result, error) {
	if count < 1 || count > MaxCount {
		return nil, errors.InvalidInput(fmt.Sprintf("Count must be between 1 and %d", MaxCount), nil)
	}

	res := &Result{}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		u := s.fakeUser()
		if err := s.store.CreateUser(ctx, u); err != nil {
			s.logger.Warn("error creating fake user", zap.Int("index", i), zap.Error(err))
			res.FailedAttempts++
			continue
		}
		res.UsersCreated++

		var err error
		switch u.Role {
		case models.RoleCompany:
			res.Companies++
			err = s.fakeJob(ctx, u, res)
		case models.RoleMentor:
			res.Mentors++
			if err = s.fakeJob(ctx, u, res); err == nil {
				err = s.fakeService(ctx, u, res)
			}
		default:
			res.Students++
			if s.faker.Bool() {
				err = s.fakeProject(ctx, u, res)
			}
			if err == nil && s.rng.Intn(3) == 0 {
				err = s.fakeService(ctx, u, res)
			}
		}
		if err == nil && s.faker.Bool() {
			err = s.fakeAnnouncement(ctx, u, res)
		}
		if err != nil {
			return res, err
		}
	}

	s.logger.Info("generated test data",
		zap.Int("users", res.UsersCreated),
		zap.Int("projects", res.Projects),
		zap.Int("services", res.Services),
		zap.Int("jobs", res.Jobs),
		zap.Int("failed", res.FailedAttempts),
	)
	return res, nil
}

func (s *Seeder) fakeUser() *models.User {
	first, last := s.faker.FirstName(), s.faker.LastName()
	email := fmt.Sprintf("%s.%s.%d@%s",
		strings.ToLower(first), strings.ToLower(last), s.faker.Number(1000, 99999), s.faker.DomainName())

	role := models.RoleStudent
	switch n := s.rng.Intn(10); {
	case n == 0:
		role = models.RoleCompany
	case n < 3:
		role = models.RoleMentor
	}

	university := s.pick(universities)
	field := s.pick(fields)
	location := s.faker.City()
	bio := s.faker.Sentence(12)
	year := s.faker.Number(1, 6)
	u := &models.User{
		Email:        email,
		PasswordHash: s.hash,
		FirstName:    &first,
		LastName:     &last,
		Role:         role,
		University:   &university,
		Field:        &field,
		Location:     &location,
		Bio:          &bio,
		Skills:       s.pickN(skills, 2, 5),
	}
	if role == models.RoleStudent {
		u.YearOfStudy = &year
	}
	return u
}

func (s *Seeder) fakeProject(ctx context.Context, u *models.User, res *Result) error {
	p := &models.Project{
		Title:           s.faker.AppName(),
		Description:     s.faker.Paragraph(1, 3, 12, " "),
		Category:        s.pick(categories),
		Status:          models.ProjectStatusActive,
		Skills:          s.pickN(skills, 1, 4),
		MaxParticipants: s.faker.Number(2, models.DefaultMaxParticipants),
		CreatorID:       u.ID,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}
	res.Projects++
	return nil
}

// fakeService creates a service; about half are already approved.
func (s *Seeder) fakeService(ctx context.Context, u *models.User, res *Result) error {
	price := fmt.Sprintf("$%d/hour", s.faker.Number(10, 80))
	svc := &models.Service{
		Title:       s.faker.HackerPhrase(),
		Description: s.faker.Paragraph(1, 2, 10, " "),
		Category:    s.pick(categories),
		Price:       &price,
		Location:    u.Location,
		Status:      models.ServiceStatusPendingApproval,
		ProviderID:  u.ID,
	}
	if s.faker.Bool() {
		svc.Status = models.ServiceStatusActive
	}
	if err := s.store.CreateService(ctx, svc); err != nil {
		return fmt.Errorf("error creating service: %w", err)
	}
	res.Services++
	return nil
}

func (s *Seeder) fakeJob(ctx context.Context, u *models.User, res *Result) error {
	salary := fmt.Sprintf("$%d-%d", s.faker.Number(20, 60)*1000, s.faker.Number(61, 150)*1000)
	j := &models.JobOffer{
		Title:        s.faker.JobTitle(),
		Description:  s.faker.Paragraph(1, 3, 12, " "),
		Company:      s.faker.Company(),
		Location:     s.faker.City(),
		Type:         s.pick(jobTypes),
		Salary:       &salary,
		Requirements: s.pickN(skills, 1, 3),
		Benefits:     []string{"Mentorship", "Flexible hours"},
		Status:       models.JobStatusActive,
		PosterID:     u.ID,
	}
	if err := s.store.CreateJobOffer(ctx, j); err != nil {
		return fmt.Errorf("error creating job offer: %w", err)
	}
	res.Jobs++
	return nil
}

func (s *Seeder) fakeAnnouncement(ctx context.Context, u *models.User, res *Result) error {
	title := s.faker.Sentence(4)
	a := &models.Announcement{
		Title:    &title,
		Content:  s.faker.Paragraph(1, 2, 14, " "),
		Type:     models.AnnouncementGeneral,
		AuthorID: u.ID,
	}
	if err := s.store.CreateAnnouncement(ctx, a); err != nil {
		return fmt.Errorf("error creating announcement: %w", err)
	}
	res.Announcements++
	return nil
}

func (s *Seeder) pick(values []string) string {
	return values[s.rng.Intn(len(values))]
}

// pickN returns between min and max distinct values.
func (s *Seeder) pickN(values []string, min, max int) []string {
	n := min + s.rng.Intn(max-min+1)
	out := make([]string, 0, n)
	for _, i := range s.rng.Perm(len(values))[:n] {
		out = append(out, values[i])
	}
	return out
}
