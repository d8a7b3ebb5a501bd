package memory

import (
	"context"
	"sort"

	"skilllink/backend/errors"
	"skilllink/backend/models"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[m.SenderID]; !ok {
		return errors.NotFound("User not found", nil)
	}
	if _, ok := s.users[m.ReceiverID]; !ok {
		return errors.NotFound("Receiver not found", nil)
	}

	m.ID = s.nextID()
	m.Read = false
	m.CreatedAt = s.now()

	stored := *m
	s.messages[m.ID] = &stored
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, errors.NotFound("Message not found", nil)
	}
	out := *m
	return &out, nil
}

func (s *Store) ListUserMessages(ctx context.Context, userID int64) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := []models.Message{}
	for _, m := range s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			messages = append(messages, *m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return newerFirst(messages[i].CreatedAt, messages[i].ID, messages[j].CreatedAt, messages[j].ID)
	})
	return messages, nil
}

func (s *Store) GetConversation(ctx context.Context, userID, otherID int64) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := []models.Message{}
	for _, m := range s.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			messages = append(messages, *m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return olderFirst(messages[i].CreatedAt, messages[i].ID, messages[j].CreatedAt, messages[j].ID)
	})
	return messages, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return errors.NotFound("Message not found", nil)
	}
	m.Read = true
	return nil
}

func (s *Store) MarkConversationRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, m := range s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (s *Store) CountUnread(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.Read {
			n++
		}
	}
	return n, nil
}
