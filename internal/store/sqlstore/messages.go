package sqlstore

import (
	"context"

	"github.com/pliu/aichat/internal/models"
)

func (s *SQLStore) SaveDirectMessage(ctx context.Context, msg *models.DirectMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now()
	}
	var id int64
	query := s.rebind("INSERT INTO direct_messages (sender_id, recipient_id, content, created_at) VALUES (?, ?, ?, ?) RETURNING id")
	if err := s.db.QueryRowContext(ctx, query, msg.SenderID, msg.RecipientID, msg.Content, msg.Timestamp).Scan(&id); err != nil {
		return err
	}
	msg.ID = formatID(id)
	return nil
}

func (s *SQLStore) DirectMessages(ctx context.Context, userA, userB string, limit int) ([]models.DirectMessage, error) {
	query := s.rebind(`
		SELECT id, sender_id, recipient_id, content, created_at
		FROM direct_messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, userA, userB, userB, userA, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.DirectMessage
	for rows.Next() {
		var (
			m  models.DirectMessage
			id int64
		)
		if err := rows.Scan(&id, &m.SenderID, &m.RecipientID, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.ID = formatID(id)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}
