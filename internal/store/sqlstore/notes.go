package sqlstore

import (
	"context"

	"github.com/pliu/aichat/internal/models"
)

func (s *SQLStore) CreateNote(ctx context.Context, note *models.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now()
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}
	var id int64
	query := s.rebind("INSERT INTO notes (user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id")
	if err := s.db.QueryRowContext(ctx, query, note.UserID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt).Scan(&id); err != nil {
		return err
	}
	note.ID = formatID(id)
	return nil
}

func (s *SQLStore) Notes(ctx context.Context, userID string) ([]models.Note, error) {
	query := s.rebind(`
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var (
			n  models.Note
			id int64
		)
		if err := rows.Scan(&id, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		n.ID = formatID(id)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLStore) UpdateNote(ctx context.Context, note *models.Note) error {
	id, ok := parseID(note.ID)
	if !ok {
		return nil
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now()
	}
	query := s.rebind("UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ? AND user_id = ?")
	_, err := s.db.ExecContext(ctx, query, note.Title, note.Content, note.UpdatedAt, id, note.UserID)
	return err
}

func (s *SQLStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	id, ok := parseID(noteID)
	if !ok {
		return nil
	}
	query := s.rebind("DELETE FROM notes WHERE id = ? AND user_id = ?")
	_, err := s.db.ExecContext(ctx, query, id, userID)
	return err
}
