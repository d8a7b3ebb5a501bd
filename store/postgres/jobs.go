package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

func (s *Store) CreateJobOffer(ctx context.Context, j *models.JobOffer) error {
	if j.Status == "" {
		j.Status = models.JobStatusActive
	}
	j.Requirements = nonNil(j.Requirements)
	j.Benefits = nonNil(j.Benefits)

	err := s.db.QueryRowxContext(ctx, InsertJobQuery,
		j.Title, j.Description, j.Company, j.Location, j.Type, j.Duration, j.Salary,
		j.Requirements, j.Benefits, j.Status, j.PosterID,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	return mapErr(err, "User not found")
}

func (s *Store) ListJobOffers(ctx context.Context, filter models.JobFilter) ([]models.JobOffer, error) {
	var w where
	if filter.PosterID != 0 {
		w.add("poster_id = ?", filter.PosterID)
	}
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		w.add("(title ILIKE ? OR description ILIKE ? OR company ILIKE ? OR location ILIKE ?)", likePattern(q))
	}

	jobs := []models.JobOffer{}
	query := SelectJobsQuery + w.String() + ` ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &jobs, query, w.args...); err != nil {
		return nil, mapErr(err, "Job not found")
	}
	return jobs, nil
}

func (s *Store) GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error) {
	var j models.JobOffer
	if err := s.db.GetContext(ctx, &j, SelectJobsQuery+` WHERE id = $1`, id); err != nil {
		return nil, mapErr(err, "Job not found")
	}
	return &j, nil
}

func (s *Store) ApplyToJob(ctx context.Context, jobID, userID int64, coverLetter *string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var j models.JobOffer
		if err := tx.GetContext(ctx, &j, SelectJobsQuery+` WHERE id = $1`, jobID); err != nil {
			return mapErr(err, "Job not found")
		}
		if j.PosterID == userID {
			return errors.InvalidInput("Cannot apply to your own job", nil)
		}
		if j.Status != models.JobStatusActive {
			return errors.InvalidInput("Job is not accepting applications", nil)
		}

		var id int64
		if err := tx.QueryRowxContext(ctx, InsertApplicationQuery, jobID, userID, coverLetter).Scan(&id); err != nil {
			return mapErr(err, "Job not found")
		}
		return mapErr(tx.GetContext(ctx, &app, SelectApplicationsQuery+` WHERE a.id = $1`, id), "Application not found")
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *Store) GetJobApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := s.db.GetContext(ctx, &app, SelectApplicationsQuery+` WHERE a.id = $1`, id); err != nil {
		return nil, mapErr(err, "Application not found")
	}
	return &app, nil
}

func (s *Store) ListUserApplications(ctx context.Context, userID int64) ([]models.JobApplication, error) {
	apps := []models.JobApplication{}
	query := SelectApplicationsQuery + ` WHERE a.user_id = $1 ORDER BY a.applied_at DESC, a.id DESC`
	if err := s.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, mapErr(err, "Application not found")
	}
	return apps, nil
}

func (s *Store) ListJobApplications(ctx context.Context, jobID int64) ([]models.JobApplication, error) {
	if _, err := s.GetJobOffer(ctx, jobID); err != nil {
		return nil, err
	}
	apps := []models.JobApplication{}
	query := SelectApplicationsQuery + ` WHERE a.job_id = $1 ORDER BY a.applied_at DESC, a.id DESC`
	if err := s.db.SelectContext(ctx, &apps, query, jobID); err != nil {
		return nil, mapErr(err, "Application not found")
	}
	return apps, nil
}

func (s *Store) SetApplicationStatus(ctx context.Context, id int64, status string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var current string
		if err := tx.GetContext(ctx, &current, LockApplicationStatusQuery, id); err != nil {
			return mapErr(err, "Application not found")
		}
		if err := store.CheckApplicationTransition(current, status); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, UpdateApplicationStatusQuery, id, status); err != nil {
			return mapErr(err, "Application not found")
		}
		return mapErr(tx.GetContext(ctx, &app, SelectApplicationsQuery+` WHERE a.id = $1`, id), "Application not found")
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}
