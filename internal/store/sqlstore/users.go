package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
)

const userColumns = "id, username, email, password, is_verified, verification_token, created_at"

func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, s.rebind("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)"), user.Username).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return store.ErrDuplicateUsername
	}
	if err := s.db.QueryRowContext(ctx, s.rebind("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)"), user.Email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return store.ErrDuplicateEmail
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	var id int64
	query := s.rebind("INSERT INTO users (username, email, password, is_verified, verification_token, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id")
	err := s.db.QueryRowContext(ctx, query, user.Username, user.Email, user.Password, user.IsVerified, user.VerificationToken, user.CreatedAt).Scan(&id)
	if err != nil {
		return classifyUnique(err)
	}
	user.ID = formatID(id)
	return nil
}

// classifyUnique maps a unique-constraint failure that slipped past the
// existence checks onto the matching sentinel.
func classifyUnique(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate") {
		return err
	}
	switch {
	case strings.Contains(msg, "username"):
		return store.ErrDuplicateUsername
	case strings.Contains(msg, "email"):
		return store.ErrDuplicateEmail
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user models.User
		id   int64
	)
	if err := row.Scan(&id, &user.Username, &user.Email, &user.Password, &user.IsVerified, &user.VerificationToken, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.ID = formatID(id)
	return &user, nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE username = ?")
	user, err := scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE id = ?")
	user, err := scanUser(s.db.QueryRowContext(ctx, query, n))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *SQLStore) VerifyUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE verification_token = ?")
	user, err := scanUser(s.db.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, notFound(err)
	}

	n, _ := parseID(user.ID)
	update := s.rebind("UPDATE users SET is_verified = TRUE, verification_token = '' WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, update, n); err != nil {
		return nil, fmt.Errorf("verify user: %w", err)
	}
	user.IsVerified = true
	user.VerificationToken = ""
	return user, nil
}

func (s *SQLStore) GetEmailTemplate(ctx context.Context, name string) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	query := s.rebind("SELECT name, subject, body FROM email_templates WHERE name = ?")
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&tmpl.Name, &tmpl.Subject, &tmpl.Body); err != nil {
		return nil, notFound(err)
	}
	return &tmpl, nil
}

func (s *SQLStore) UpsertEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error {
	query := s.rebind(`
		INSERT INTO email_templates (name, subject, body) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET subject = excluded.subject, body = excluded.body
	`)
	_, err := s.db.ExecContext(ctx, query, tmpl.Name, tmpl.Subject, tmpl.Body)
	return err
}
