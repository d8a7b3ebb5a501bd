package memory

import (
	"context"
	"sort"
	"strings"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

func (s *Store) CreateJobOffer(ctx context.Context, j *models.JobOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[j.PosterID]; !ok {
		return errors.NotFound("User not found", nil)
	}

	now := s.now()
	j.ID = s.nextID()
	if j.Status == "" {
		j.Status = models.JobStatusActive
	}
	j.Requirements = cloneStrings(j.Requirements)
	j.Benefits = cloneStrings(j.Benefits)
	j.CreatedAt = now
	j.UpdatedAt = now

	stored := *j
	s.jobs[j.ID] = &stored
	return nil
}

func (s *Store) ListJobOffers(ctx context.Context, filter models.JobFilter) ([]models.JobOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.TrimSpace(filter.Query)
	jobs := []models.JobOffer{}
	for _, j := range s.jobs {
		if filter.PosterID != 0 && j.PosterID != filter.PosterID {
			continue
		}
		if filter.Type != "" && j.Type != filter.Type {
			continue
		}
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if query != "" && !containsFold(j.Title, query) && !containsFold(j.Description, query) &&
			!containsFold(j.Company, query) && !containsFold(j.Location, query) {
			continue
		}
		jobs = append(jobs, *copyJob(j))
	}
	sort.Slice(jobs, func(i, k int) bool {
		return newerFirst(jobs[i].CreatedAt, jobs[i].ID, jobs[k].CreatedAt, jobs[k].ID)
	})
	return jobs, nil
}

func (s *Store) GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, errors.NotFound("Job not found", nil)
	}
	return copyJob(j), nil
}

func (s *Store) ApplyToJob(ctx context.Context, jobID, userID int64, coverLetter *string) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, errors.NotFound("Job not found", nil)
	}
	if j.PosterID == userID {
		return nil, errors.InvalidInput("Cannot apply to your own job", nil)
	}
	if j.Status != models.JobStatusActive {
		return nil, errors.InvalidInput("Job is not accepting applications", nil)
	}
	for _, a := range s.applications {
		if a.JobID == jobID && a.UserID == userID {
			return nil, errors.Conflict("Already applied to this job", nil)
		}
	}

	app := &models.JobApplication{
		ID:        s.nextID(),
		JobID:     jobID,
		UserID:    userID,
		Status:    models.ApplicationPending,
		AppliedAt: s.now(),
	}
	if coverLetter != nil {
		app.CoverLetter = strPtr(*coverLetter)
	}
	s.applications[app.ID] = app
	return s.decorateApplication(app), nil
}

func (s *Store) GetJobApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, errors.NotFound("Application not found", nil)
	}
	return s.decorateApplication(app), nil
}

func (s *Store) ListUserApplications(ctx context.Context, userID int64) ([]models.JobApplication, error) {
	return s.listApplications(func(a *models.JobApplication) bool { return a.UserID == userID }), nil
}

func (s *Store) ListJobApplications(ctx context.Context, jobID int64) ([]models.JobApplication, error) {
	s.mu.RLock()
	_, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("Job not found", nil)
	}
	return s.listApplications(func(a *models.JobApplication) bool { return a.JobID == jobID }), nil
}

func (s *Store) SetApplicationStatus(ctx context.Context, id int64, status string) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, errors.NotFound("Application not found", nil)
	}
	if err := store.CheckApplicationTransition(app.Status, status); err != nil {
		return nil, err
	}
	app.Status = status
	return s.decorateApplication(app), nil
}

func (s *Store) listApplications(match func(*models.JobApplication) bool) []models.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := []models.JobApplication{}
	for _, a := range s.applications {
		if match(a) {
			apps = append(apps, *s.decorateApplication(a))
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return newerFirst(apps[i].AppliedAt, apps[i].ID, apps[j].AppliedAt, apps[j].ID)
	})
	return apps
}

// decorateApplication copies app and fills the joined columns. Callers hold mu.
func (s *Store) decorateApplication(app *models.JobApplication) *models.JobApplication {
	out := *app
	if app.CoverLetter != nil {
		out.CoverLetter = strPtr(*app.CoverLetter)
	}
	if j, ok := s.jobs[app.JobID]; ok {
		out.JobTitle = j.Title
	}
	out.UserName = s.userName(app.UserID)
	return &out
}

func copyJob(j *models.JobOffer) *models.JobOffer {
	c := *j
	c.Requirements = cloneStrings(j.Requirements)
	c.Benefits = cloneStrings(j.Benefits)
	return &c
}
