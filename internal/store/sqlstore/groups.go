package sqlstore

import (
	"context"
	"fmt"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
)

func (s *SQLStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	query := s.rebind("INSERT INTO chat_groups (name, creator_id, created_at) VALUES (?, ?, ?) RETURNING id")
	if err := tx.QueryRowContext(ctx, query, group.Name, group.CreatorID, group.CreatedAt).Scan(&id); err != nil {
		return err
	}

	insert := s.rebind("INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)")
	for i, member := range group.Members {
		if _, err := tx.ExecContext(ctx, insert, id, member, i); err != nil {
			return fmt.Errorf("add member %s: %w", member, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	group.ID = formatID(id)
	return nil
}

func (s *SQLStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	var group models.Group
	query := s.rebind("SELECT name, creator_id, created_at FROM chat_groups WHERE id = ?")
	if err := s.db.QueryRowContext(ctx, query, n).Scan(&group.Name, &group.CreatorID, &group.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	group.ID = formatID(n)

	members, err := s.groupMembers(ctx, n)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return &group, nil
}

func (s *SQLStore) UserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	query := s.rebind(`
		SELECT g.id, g.name, g.creator_id, g.created_at
		FROM chat_groups g
		JOIN group_members m ON g.id = m.group_id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.id DESC
	`)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	var (
		groups []models.Group
		ids    []int64
	)
	for rows.Next() {
		var (
			g  models.Group
			id int64
		)
		if err := rows.Scan(&id, &g.Name, &g.CreatorID, &g.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		g.ID = formatID(id)
		groups = append(groups, g)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Release the connection before loading members; sqlite runs with one.
	rows.Close()

	for i, id := range ids {
		members, err := s.groupMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (s *SQLStore) groupMembers(ctx context.Context, groupID int64) ([]string, error) {
	query := s.rebind("SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position ASC")
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		members = append(members, userID)
	}
	return members, rows.Err()
}

func (s *SQLStore) SaveGroupMessage(ctx context.Context, msg *models.GroupMessage) error {
	n, ok := parseID(msg.GroupID)
	if !ok {
		return store.ErrNotFound
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now()
	}
	var id int64
	query := s.rebind("INSERT INTO group_messages (group_id, sender_id, sender_name, content, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id")
	if err := s.db.QueryRowContext(ctx, query, n, msg.SenderID, msg.SenderName, msg.Content, msg.Timestamp).Scan(&id); err != nil {
		return err
	}
	msg.ID = formatID(id)
	return nil
}

func (s *SQLStore) GroupMessages(ctx context.Context, groupID string, limit int) ([]models.GroupMessage, error) {
	n, ok := parseID(groupID)
	if !ok {
		return nil, nil
	}
	query := s.rebind(`
		SELECT id, sender_id, sender_name, content, created_at
		FROM group_messages
		WHERE group_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, n, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.GroupMessage
	for rows.Next() {
		var (
			m  models.GroupMessage
			id int64
		)
		if err := rows.Scan(&id, &m.SenderID, &m.SenderName, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.ID = formatID(id)
		m.GroupID = groupID
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}
