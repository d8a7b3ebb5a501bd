package postgres

import (
	"context"

	"skilllink/backend/models"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	err := s.db.QueryRowxContext(ctx, InsertMessageQuery, m.SenderID, m.ReceiverID, m.Content).
		Scan(&m.ID, &m.Read, &m.CreatedAt)
	return mapErr(err, "Receiver not found")
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	var m models.Message
	if err := s.db.GetContext(ctx, &m, SelectMessagesQuery+` WHERE id = $1`, id); err != nil {
		return nil, mapErr(err, "Message not found")
	}
	return &m, nil
}

func (s *Store) ListUserMessages(ctx context.Context, userID int64) ([]models.Message, error) {
	messages := []models.Message{}
	if err := s.db.SelectContext(ctx, &messages, UserMessagesQuery, userID); err != nil {
		return nil, mapErr(err, "Message not found")
	}
	return messages, nil
}

func (s *Store) GetConversation(ctx context.Context, userID, otherID int64) ([]models.Message, error) {
	messages := []models.Message{}
	if err := s.db.SelectContext(ctx, &messages, ConversationQuery, userID, otherID); err != nil {
		return nil, mapErr(err, "Message not found")
	}
	return messages, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id int64) error {
	return s.execOne(ctx, "Message not found", MarkMessageReadQuery, id)
}

func (s *Store) MarkConversationRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, MarkConversationReadQuery, receiverID, senderID)
	if err != nil {
		return 0, mapErr(err, "Message not found")
	}
	return rowsAffected(res)
}

func (s *Store) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, CountUnreadQuery, userID); err != nil {
		return 0, mapErr(err, "Message not found")
	}
	return n, nil
}
