package memory

import (
	"context"
	"sort"
	"strings"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.CreatorID]; !ok {
		return errors.NotFound("User not found", nil)
	}

	now := s.now()
	p.ID = s.nextID()
	if p.Status == "" {
		p.Status = models.ProjectStatusActive
	}
	if p.MaxParticipants <= 0 {
		p.MaxParticipants = models.DefaultMaxParticipants
	}
	p.CurrentParticipants = 0
	p.Skills = cloneStrings(p.Skills)
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := *p
	s.projects[p.ID] = &stored
	return nil
}

func (s *Store) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.TrimSpace(filter.Query)
	projects := []models.Project{}
	for _, p := range s.projects {
		if filter.CreatorID != 0 && p.CreatorID != filter.CreatorID {
			continue
		}
		if query != "" && !containsFold(p.Title, query) &&
			!containsFold(p.Description, query) && !containsFold(p.Category, query) {
			continue
		}
		projects = append(projects, *copyProject(p))
	}
	sort.Slice(projects, func(i, j int) bool {
		return newerFirst(projects[i].CreatedAt, projects[i].ID, projects[j].CreatedAt, projects[j].ID)
	})
	return projects, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, errors.NotFound("Project not found", nil)
	}
	return copyProject(p), nil
}

func (s *Store) JoinProject(ctx context.Context, projectID, userID int64) (*models.ProjectParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, errors.NotFound("Project not found", nil)
	}
	if p.CreatorID == userID {
		return nil, errors.InvalidInput("Cannot join your own project", nil)
	}
	if p.Status != models.ProjectStatusActive {
		return nil, errors.InvalidInput("Project is not accepting participants", nil)
	}
	if p.IsFull() {
		return nil, errors.InvalidInput("Project is full", nil)
	}
	for _, pp := range s.participants {
		if pp.ProjectID == projectID && pp.UserID == userID {
			return nil, errors.Conflict("Already requested to join this project", nil)
		}
	}

	pp := &models.ProjectParticipant{
		ID:        s.nextID(),
		ProjectID: projectID,
		UserID:    userID,
		Status:    models.ParticipantPending,
		JoinedAt:  s.now(),
	}
	s.participants[pp.ID] = pp

	out := *pp
	out.UserName = s.userName(userID)
	return &out, nil
}

func (s *Store) ListProjectParticipants(ctx context.Context, projectID int64) ([]models.ProjectParticipant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.projects[projectID]; !ok {
		return nil, errors.NotFound("Project not found", nil)
	}
	participants := []models.ProjectParticipant{}
	for _, pp := range s.participants {
		if pp.ProjectID != projectID {
			continue
		}
		out := *pp
		out.UserName = s.userName(pp.UserID)
		participants = append(participants, out)
	}
	sort.Slice(participants, func(i, j int) bool {
		return olderFirst(participants[i].JoinedAt, participants[i].ID, participants[j].JoinedAt, participants[j].ID)
	})
	return participants, nil
}

func (s *Store) SetParticipantStatus(ctx context.Context, projectID, participantID int64, status string) (*models.ProjectParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, errors.NotFound("Project not found", nil)
	}
	pp, ok := s.participants[participantID]
	if !ok || pp.ProjectID != projectID {
		return nil, errors.NotFound("Participant not found", nil)
	}

	if pp.Status != status {
		switch {
		case status == models.ParticipantAccepted:
			if p.IsFull() {
				return nil, errors.InvalidInput("Project is full", nil)
			}
			p.CurrentParticipants++
		case pp.Status == models.ParticipantAccepted:
			p.CurrentParticipants--
		}
		pp.Status = status
		p.UpdatedAt = s.now()
	}

	out := *pp
	out.UserName = s.userName(pp.UserID)
	return &out, nil
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	c.Skills = cloneStrings(p.Skills)
	return &c
}
