package sqlstore

import (
	"context"

	"github.com/pliu/aichat/internal/models"
)

func (s *SQLStore) SaveExchange(ctx context.Context, ex *models.ChatExchange) error {
	if ex.Timestamp.IsZero() {
		ex.Timestamp = now()
	}
	var id int64
	query := s.rebind("INSERT INTO chat_history (user_id, input, output, created_at) VALUES (?, ?, ?, ?) RETURNING id")
	if err := s.db.QueryRowContext(ctx, query, ex.UserID, ex.Input, ex.Output, ex.Timestamp).Scan(&id); err != nil {
		return err
	}
	ex.ID = formatID(id)
	return nil
}

func (s *SQLStore) RecentExchanges(ctx context.Context, userID string, limit int) ([]models.ChatExchange, error) {
	query := s.rebind(`
		SELECT id, user_id, input, output, created_at
		FROM chat_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.ChatExchange
	for rows.Next() {
		var (
			ex models.ChatExchange
			id int64
		)
		if err := rows.Scan(&id, &ex.UserID, &ex.Input, &ex.Output, &ex.Timestamp); err != nil {
			return nil, err
		}
		ex.ID = formatID(id)
		history = append(history, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(history)
	return history, nil
}

func (s *SQLStore) ClaimOrphanedExchanges(ctx context.Context, userID string) (int64, error) {
	query := s.rebind("UPDATE chat_history SET user_id = ? WHERE user_id = ''")
	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
