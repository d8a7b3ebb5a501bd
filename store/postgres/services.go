package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"skilllink/backend/errors"
	"skilllink/backend/models"
	"skilllink/backend/store"
)

func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	if svc.Status == "" {
		svc.Status = models.ServiceStatusPendingApproval
	}
	err := s.db.QueryRowxContext(ctx, InsertServiceQuery,
		svc.Title, svc.Description, svc.Category, svc.Price, svc.Location,
		svc.Availability, svc.ImageURL, svc.Status, svc.ProviderID,
	).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
	return mapErr(err, "User not found")
}

func (s *Store) ListServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	var w where
	if filter.ProviderID != 0 {
		w.add("provider_id = ?", filter.ProviderID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		w.add("(title ILIKE ? OR description ILIKE ? OR category ILIKE ?)", likePattern(q))
	}

	services := []models.Service{}
	query := SelectServicesQuery + w.String() + ` ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &services, query, w.args...); err != nil {
		return nil, mapErr(err, "Service not found")
	}
	return services, nil
}

func (s *Store) GetService(ctx context.Context, id int64) (*models.Service, error) {
	var svc models.Service
	if err := s.db.GetContext(ctx, &svc, SelectServicesQuery+` WHERE id = $1`, id); err != nil {
		return nil, mapErr(err, "Service not found")
	}
	return &svc, nil
}

func (s *Store) SetServiceStatus(ctx context.Context, id int64, status string) error {
	return s.execOne(ctx, "Service not found", UpdateServiceStatusQuery, id, status)
}

// DeleteService removes the service; its requests go with it (ON DELETE CASCADE).
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	return s.execOne(ctx, "Service not found", DeleteServiceQuery, id)
}

func (s *Store) CreateServiceRequest(ctx context.Context, serviceID, requesterID int64, message *string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var svc models.Service
		if err := tx.GetContext(ctx, &svc, SelectServicesQuery+` WHERE id = $1`, serviceID); err != nil {
			return mapErr(err, "Service not found")
		}
		if svc.ProviderID == requesterID {
			return errors.InvalidInput("Cannot request your own service", nil)
		}
		if svc.Status != models.ServiceStatusActive {
			return errors.InvalidInput("Service is not available", nil)
		}

		var id int64
		if err := tx.QueryRowxContext(ctx, InsertServiceRequestQuery, serviceID, requesterID, message).Scan(&id); err != nil {
			return mapErr(err, "Service not found")
		}
		return mapErr(tx.GetContext(ctx, &req, SelectServiceRequestsQuery+` WHERE r.id = $1`, id), "Service request not found")
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) ListServiceRequests(ctx context.Context, filter models.ServiceRequestFilter) ([]models.ServiceRequest, error) {
	var w where
	if filter.Status != "" {
		w.add("r.status = ?", filter.Status)
	}
	if filter.ServiceID != 0 {
		w.add("r.service_id = ?", filter.ServiceID)
	}
	if filter.RequesterID != 0 {
		w.add("r.requester_id = ?", filter.RequesterID)
	}

	requests := []models.ServiceRequest{}
	query := SelectServiceRequestsQuery + w.String() + ` ORDER BY r.requested_at DESC, r.id DESC`
	if err := s.db.SelectContext(ctx, &requests, query, w.args...); err != nil {
		return nil, mapErr(err, "Service request not found")
	}
	return requests, nil
}

func (s *Store) SetServiceRequestStatus(ctx context.Context, id int64, status string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var current string
		if err := tx.GetContext(ctx, &current, LockServiceRequestStatusQuery, id); err != nil {
			return mapErr(err, "Service request not found")
		}
		if err := store.CheckRequestTransition(current, status); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, UpdateServiceRequestStatusQuery, id, status); err != nil {
			return mapErr(err, "Service request not found")
		}
		return mapErr(tx.GetContext(ctx, &req, SelectServiceRequestsQuery+` WHERE r.id = $1`, id), "Service request not found")
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
