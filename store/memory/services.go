package memory

import (
	"context"
	"sort"
	"strings"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[svc.ProviderID]; !ok {
		return errors.NotFound("User not found", nil)
	}

	now := s.now()
	svc.ID = s.nextID()
	if svc.Status == "" {
		svc.Status = models.ServiceStatusPendingApproval
	}
	svc.CreatedAt = now
	svc.UpdatedAt = now

	stored := *svc
	s.services[svc.ID] = &stored
	return nil
}

func (s *Store) ListServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.TrimSpace(filter.Query)
	services := []models.Service{}
	for _, svc := range s.services {
		if filter.ProviderID != 0 && svc.ProviderID != filter.ProviderID {
			continue
		}
		if filter.Status != "" && svc.Status != filter.Status {
			continue
		}
		if query != "" && !containsFold(svc.Title, query) &&
			!containsFold(svc.Description, query) && !containsFold(svc.Category, query) {
			continue
		}
		services = append(services, *svc)
	}
	sort.Slice(services, func(i, j int) bool {
		return newerFirst(services[i].CreatedAt, services[i].ID, services[j].CreatedAt, services[j].ID)
	})
	return services, nil
}

func (s *Store) GetService(ctx context.Context, id int64) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, errors.NotFound("Service not found", nil)
	}
	out := *svc
	return &out, nil
}

func (s *Store) SetServiceStatus(ctx context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		return errors.NotFound("Service not found", nil)
	}
	svc.Status = status
	svc.UpdatedAt = s.now()
	return nil
}

func (s *Store) DeleteService(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		return errors.NotFound("Service not found", nil)
	}
	delete(s.services, id)
	for rid, r := range s.requests {
		if r.ServiceID == id {
			delete(s.requests, rid)
		}
	}
	return nil
}

func (s *Store) CreateServiceRequest(ctx context.Context, serviceID, requesterID int64, message *string) (*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[serviceID]
	if !ok {
		return nil, errors.NotFound("Service not found", nil)
	}
	if svc.ProviderID == requesterID {
		return nil, errors.InvalidInput("Cannot request your own service", nil)
	}
	if svc.Status != models.ServiceStatusActive {
		return nil, errors.InvalidInput("Service is not available", nil)
	}
	for _, r := range s.requests {
		if r.ServiceID == serviceID && r.RequesterID == requesterID && r.Status == models.RequestPending {
			return nil, errors.Conflict("You already have a pending request for this service", nil)
		}
	}

	req := &models.ServiceRequest{
		ID:          s.nextID(),
		ServiceID:   serviceID,
		RequesterID: requesterID,
		Status:      models.RequestPending,
		RequestedAt: s.now(),
	}
	if message != nil {
		req.Message = strPtr(*message)
	}
	s.requests[req.ID] = req
	return s.decorateRequest(req), nil
}

func (s *Store) ListServiceRequests(ctx context.Context, filter models.ServiceRequestFilter) ([]models.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := []models.ServiceRequest{}
	for _, r := range s.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ServiceID != 0 && r.ServiceID != filter.ServiceID {
			continue
		}
		if filter.RequesterID != 0 && r.RequesterID != filter.RequesterID {
			continue
		}
		requests = append(requests, *s.decorateRequest(r))
	}
	sort.Slice(requests, func(i, j int) bool {
		return newerFirst(requests[i].RequestedAt, requests[i].ID, requests[j].RequestedAt, requests[j].ID)
	})
	return requests, nil
}

func (s *Store) SetServiceRequestStatus(ctx context.Context, id int64, status string) (*models.ServiceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, errors.NotFound("Service request not found", nil)
	}
	if err := store.CheckRequestTransition(req.Status, status); err != nil {
		return nil, err
	}

	now := s.now()
	req.Status = status
	switch status {
	case models.RequestApproved:
		req.ApprovedAt = &now
	case models.RequestCompleted:
		req.CompletedAt = &now
	}
	return s.decorateRequest(req), nil
}

// decorateRequest copies req and fills the joined columns. Callers hold mu.
func (s *Store) decorateRequest(req *models.ServiceRequest) *models.ServiceRequest {
	out := *req
	if req.Message != nil {
		out.Message = strPtr(*req.Message)
	}
	if svc, ok := s.services[req.ServiceID]; ok {
		out.ServiceTitle = svc.Title
	}
	out.RequesterName = s.userName(req.RequesterID)
	return &out
}
