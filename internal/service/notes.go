package service

import (
	"context"
	"strings"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
)

// Notes is a per-user notebook. Update and Delete on a note the caller does
// not own succeed without touching it.
type Notes struct {
	store store.Store
}

func NewNotes(s store.Store) *Notes {
	return &Notes{store: s}
}

func noteTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return models.DefaultNoteTitle
	}
	return title
}

func (n *Notes) Create(ctx context.Context, userID, title, content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ValidationError("Content required")
	}
	note := &models.Note{UserID: userID, Title: noteTitle(title), Content: content}
	if err := n.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (n *Notes) List(ctx context.Context, userID string) ([]models.Note, error) {
	return n.store.Notes(ctx, userID)
}

func (n *Notes) Update(ctx context.Context, userID, noteID, title, content string) error {
	if strings.TrimSpace(content) == "" {
		return ValidationError("Content required")
	}
	return n.store.UpdateNote(ctx, &models.Note{ID: noteID, UserID: userID, Title: noteTitle(title), Content: content})
}

func (n *Notes) Delete(ctx context.Context, userID, noteID string) error {
	return n.store.DeleteNote(ctx, userID, noteID)
}
