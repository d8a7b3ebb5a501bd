package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateConnection(ctx context.Context, requesterID, receiverID int64) (*models.Connection, error) {
	if requesterID == receiverID {
		return nil, errors.InvalidInput("Cannot connect with yourself", nil)
	}

	var c models.Connection
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, UserExistsQuery, receiverID); err != nil {
			return mapErr(err, "User not found")
		}
		if !exists {
			return errors.NotFound("User not found", nil)
		}
		if err := tx.GetContext(ctx, &exists, ConnectionExistsQuery, requesterID, receiverID); err != nil {
			return mapErr(err, "Connection not found")
		}
		if exists {
			return errors.Conflict("Connection already exists", nil)
		}

		var id int64
		if err := tx.QueryRowxContext(ctx, InsertConnectionQuery, requesterID, receiverID).Scan(&id); err != nil {
			return mapErr(err, "User not found")
		}
		return mapErr(tx.GetContext(ctx, &c, SelectConnectionsForQuery+` WHERE c.id = $2`, requesterID, id), "Connection not found")
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetConnection(ctx context.Context, id int64) (*models.Connection, error) {
	var c models.Connection
	if err := s.db.GetContext(ctx, &c, GetConnectionQuery, id); err != nil {
		return nil, mapErr(err, "Connection not found")
	}
	return &c, nil
}

func (s *Store) ListConnections(ctx context.Context, userID int64, status string) ([]models.Connection, error) {
	query := SelectConnectionsForQuery + ` WHERE (c.requester_id = $1 OR c.receiver_id = $1)`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND c.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY c.created_at DESC, c.id DESC`

	connections := []models.Connection{}
	if err := s.db.SelectContext(ctx, &connections, query, args...); err != nil {
		return nil, mapErr(err, "Connection not found")
	}
	return connections, nil
}

func (s *Store) ListIncomingRequests(ctx context.Context, userID int64) ([]models.Connection, error) {
	query := SelectConnectionsForQuery + `
        WHERE c.receiver_id = $1 AND c.status = 'pending'
        ORDER BY c.created_at DESC, c.id DESC`

	connections := []models.Connection{}
	if err := s.db.SelectContext(ctx, &connections, query, userID); err != nil {
		return nil, mapErr(err, "Connection not found")
	}
	return connections, nil
}

type connectionRow struct {
	RequesterID int64  `db:"requester_id"`
	ReceiverID  int64  `db:"receiver_id"`
	Status      string `db:"status"`
}

func (s *Store) RespondConnection(ctx context.Context, id int64, status string) (*models.Connection, error) {
	var c models.Connection
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var row connectionRow
		if err := tx.GetContext(ctx, &row, LockConnectionQuery, id); err != nil {
			return mapErr(err, "Connection not found")
		}
		if row.Status != models.ConnectionPending {
			return errors.InvalidInput("Connection request is no longer pending", nil)
		}
		if _, err := tx.ExecContext(ctx, RespondConnectionQuery, id, status); err != nil {
			return mapErr(err, "Connection not found")
		}
		if status == models.ConnectionAccepted {
			if _, err := tx.ExecContext(ctx, AdjustConnectionsQuery, row.RequesterID, row.ReceiverID, 1); err != nil {
				return mapErr(err, "User not found")
			}
		}
		return mapErr(tx.GetContext(ctx, &c, SelectConnectionsForQuery+` WHERE c.id = $2`, row.ReceiverID, id), "Connection not found")
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeleteConnection(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var row connectionRow
		if err := tx.GetContext(ctx, &row, DeleteConnectionQuery, id); err != nil {
			return mapErr(err, "Connection not found")
		}
		if row.Status != models.ConnectionAccepted {
			return nil
		}
		_, err := tx.ExecContext(ctx, AdjustConnectionsQuery, row.RequesterID, row.ReceiverID, -1)
		return mapErr(err, "User not found")
	})
}
