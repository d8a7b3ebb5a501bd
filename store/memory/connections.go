package memory

import (
	"context"
	"sort"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateConnection(ctx context.Context, requesterID, receiverID int64) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requesterID == receiverID {
		return nil, errors.InvalidInput("Cannot connect with yourself", nil)
	}
	if _, ok := s.users[receiverID]; !ok {
		return nil, errors.NotFound("User not found", nil)
	}
	for _, c := range s.connections {
		samePair := (c.RequesterID == requesterID && c.ReceiverID == receiverID) ||
			(c.RequesterID == receiverID && c.ReceiverID == requesterID)
		if samePair && c.Status != models.ConnectionRejected {
			return nil, errors.Conflict("Connection already exists", nil)
		}
	}

	c := &models.Connection{
		ID:          s.nextID(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
		CreatedAt:   s.now(),
	}
	s.connections[c.ID] = c
	return s.decorateConnection(c, requesterID), nil
}

func (s *Store) GetConnection(ctx context.Context, id int64) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, errors.NotFound("Connection not found", nil)
	}
	out := *c
	if c.AcceptedAt != nil {
		at := *c.AcceptedAt
		out.AcceptedAt = &at
	}
	return &out, nil
}

func (s *Store) ListConnections(ctx context.Context, userID int64, status string) ([]models.Connection, error) {
	return s.listConnections(userID, func(c *models.Connection) bool {
		return c.Involves(userID) && (status == "" || c.Status == status)
	}), nil
}

func (s *Store) ListIncomingRequests(ctx context.Context, userID int64) ([]models.Connection, error) {
	return s.listConnections(userID, func(c *models.Connection) bool {
		return c.ReceiverID == userID && c.Status == models.ConnectionPending
	}), nil
}

func (s *Store) RespondConnection(ctx context.Context, id int64, status string) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, errors.NotFound("Connection not found", nil)
	}
	if c.Status != models.ConnectionPending {
		return nil, errors.InvalidInput("Connection request is no longer pending", nil)
	}

	c.Status = status
	if status == models.ConnectionAccepted {
		now := s.now()
		c.AcceptedAt = &now
		s.adjustConnectionCount(c, 1)
	}
	return s.decorateConnection(c, c.ReceiverID), nil
}

func (s *Store) DeleteConnection(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.connections[id]
	if !ok {
		return errors.NotFound("Connection not found", nil)
	}
	if c.Status == models.ConnectionAccepted {
		s.adjustConnectionCount(c, -1)
	}
	delete(s.connections, id)
	return nil
}

func (s *Store) listConnections(userID int64, match func(*models.Connection) bool) []models.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	connections := []models.Connection{}
	for _, c := range s.connections {
		if match(c) {
			connections = append(connections, *s.decorateConnection(c, userID))
		}
	}
	sort.Slice(connections, func(i, j int) bool {
		return newerFirst(connections[i].CreatedAt, connections[i].ID, connections[j].CreatedAt, connections[j].ID)
	})
	return connections
}

// adjustConnectionCount moves both users' counters by delta. Callers hold mu.
func (s *Store) adjustConnectionCount(c *models.Connection, delta int) {
	for _, id := range []int64{c.RequesterID, c.ReceiverID} {
		if u, ok := s.users[id]; ok {
			u.Connections += delta
		}
	}
}

// decorateConnection copies c and fills the other-user columns relative to
// viewerID. Callers hold mu.
func (s *Store) decorateConnection(c *models.Connection, viewerID int64) *models.Connection {
	out := *c
	if c.AcceptedAt != nil {
		at := *c.AcceptedAt
		out.AcceptedAt = &at
	}
	out.OtherUserID = c.ReceiverID
	if c.ReceiverID == viewerID {
		out.OtherUserID = c.RequesterID
	}
	if u, ok := s.users[out.OtherUserID]; ok {
		out.OtherUserName = u.DisplayName()
		if u.ProfileImageURL != nil {
			out.OtherUserImage = strPtr(*u.ProfileImageURL)
		}
	}
	return &out
}
