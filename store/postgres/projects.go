package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}
	if p.MaxParticipants <= 0 {
		p.MaxParticipants = models.DefaultMaxParticipants
	}
	p.Skills = nonNil(p.Skills)

	err := s.db.QueryRowxContext(ctx, InsertProjectQuery,
		p.Title, p.Description, p.Category, p.Status, p.Skills, p.MaxParticipants, p.ImageURL, p.CreatorID,
	).Scan(&p.ID, &p.CurrentParticipants, &p.CreatedAt, &p.UpdatedAt)
	return mapErr(err, "User not found")
}

func (s *Store) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	var w where
	if filter.CreatorID != 0 {
		w.add("creator_id = ?", filter.CreatorID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		w.add("(title ILIKE ? OR description ILIKE ? OR category ILIKE ?)", likePattern(q))
	}

	projects := []models.Project{}
	query := SelectProjectsQuery + w.String() + ` ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &projects, query, w.args...); err != nil {
		return nil, mapErr(err, "Project not found")
	}
	return projects, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	if err := s.db.GetContext(ctx, &p, SelectProjectsQuery+` WHERE id = $1`, id); err != nil {
		return nil, mapErr(err, "Project not found")
	}
	return &p, nil
}

func (s *Store) JoinProject(ctx context.Context, projectID, userID int64) (*models.ProjectParticipant, error) {
	var pp models.ProjectParticipant
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var p models.Project
		if err := tx.GetContext(ctx, &p, LockProjectQuery, projectID); err != nil {
			return mapErr(err, "Project not found")
		}
		if p.CreatorID == userID {
			return errors.InvalidInput("Cannot join your own project", nil)
		}
		if p.Status != models.ProjectStatusActive {
			return errors.InvalidInput("Project is not accepting participants", nil)
		}
		if p.IsFull() {
			return errors.InvalidInput("Project is full", nil)
		}

		var id int64
		if err := tx.QueryRowxContext(ctx, InsertParticipantQuery, projectID, userID).Scan(&id); err != nil {
			return mapErr(err, "Project not found")
		}
		return mapErr(tx.GetContext(ctx, &pp, SelectParticipantsQuery+` WHERE pp.id = $1`, id), "Participant not found")
	})
	if err != nil {
		return nil, err
	}
	return &pp, nil
}

func (s *Store) ListProjectParticipants(ctx context.Context, projectID int64) ([]models.ProjectParticipant, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	participants := []models.ProjectParticipant{}
	query := SelectParticipantsQuery + ` WHERE pp.project_id = $1 ORDER BY pp.joined_at, pp.id`
	if err := s.db.SelectContext(ctx, &participants, query, projectID); err != nil {
		return nil, mapErr(err, "Participant not found")
	}
	return participants, nil
}

func (s *Store) SetParticipantStatus(ctx context.Context, projectID, participantID int64, status string) (*models.ProjectParticipant, error) {
	var pp models.ProjectParticipant
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var p models.Project
		if err := tx.GetContext(ctx, &p, LockProjectQuery, projectID); err != nil {
			return mapErr(err, "Project not found")
		}
		var current string
		if err := tx.GetContext(ctx, &current, LockParticipantStatusQuery, participantID, projectID); err != nil {
			return mapErr(err, "Participant not found")
		}

		if current != status {
			delta := 0
			switch {
			case status == models.ParticipantAccepted:
				if p.IsFull() {
					return errors.InvalidInput("Project is full", nil)
				}
				delta = 1
			case current == models.ParticipantAccepted:
				delta = -1
			}
			if _, err := tx.ExecContext(ctx, UpdateParticipantStatusQuery, participantID, status); err != nil {
				return mapErr(err, "Participant not found")
			}
			if _, err := tx.ExecContext(ctx, UpdateParticipantCountQuery, projectID, delta); err != nil {
				return mapErr(err, "Project not found")
			}
		}
		return mapErr(tx.GetContext(ctx, &pp, SelectParticipantsQuery+` WHERE pp.id = $1`, participantID), "Participant not found")
	})
	if err != nil {
		return nil, err
	}
	return &pp, nil
}
