package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/pliu/aichat/internal/metrics"
	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
)

const (
	DirectHistoryLimit = 50
	GroupHistoryLimit  = 50
)

// Messaging covers direct and group conversations between users.
type Messaging struct {
	store store.Store
}

func NewMessaging(s store.Store) *Messaging {
	return &Messaging{store: s}
}

func (m *Messaging) SendDirect(ctx context.Context, senderID, recipientID, content string) (*models.DirectMessage, error) {
	if strings.TrimSpace(recipientID) == "" || strings.TrimSpace(content) == "" {
		return nil, ValidationError("Recipient and content required")
	}
	msg := &models.DirectMessage{SenderID: senderID, RecipientID: recipientID, Content: content}
	if err := m.store.SaveDirectMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesSent.WithLabelValues("direct").Inc()
	return msg, nil
}

// DirectHistory is symmetric in its two users.
func (m *Messaging) DirectHistory(ctx context.Context, userID, otherID string) ([]models.DirectMessage, error) {
	return m.store.DirectMessages(ctx, userID, otherID, DirectHistoryLimit)
}

// GroupMembers puts the creator first and drops blanks and repeats.
func GroupMembers(creatorID string, members []string) []string {
	out := []string{creatorID}
	for _, id := range members {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// CreateGroup requires members to be present, though it may be empty.
func (m *Messaging) CreateGroup(ctx context.Context, creatorID, name string, members []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || members == nil {
		return nil, ValidationError("Valid name and members array required")
	}
	group := &models.Group{
		Name:      name,
		CreatorID: creatorID,
		Members:   GroupMembers(creatorID, members),
	}
	if err := m.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (m *Messaging) UserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	return m.store.UserGroups(ctx, userID)
}

func (m *Messaging) memberGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := m.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if !slices.Contains(group.Members, userID) {
		return nil, ErrNotMember
	}
	return group, nil
}

// SendGroup stamps the message with the sender's current username.
func (m *Messaging) SendGroup(ctx context.Context, groupID, senderID, content string) (*models.GroupMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ValidationError("Content required")
	}
	if _, err := m.memberGroup(ctx, groupID, senderID); err != nil {
		return nil, err
	}
	sender, err := m.store.GetUserByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := &models.GroupMessage{
		GroupID:    groupID,
		SenderID:   senderID,
		SenderName: sender.Username,
		Content:    content,
	}
	if err := m.store.SaveGroupMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesSent.WithLabelValues("group").Inc()
	return msg, nil
}

func (m *Messaging) GroupHistory(ctx context.Context, groupID, userID string) ([]models.GroupMessage, error) {
	if _, err := m.memberGroup(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return m.store.GroupMessages(ctx, groupID, GroupHistoryLimit)
}
