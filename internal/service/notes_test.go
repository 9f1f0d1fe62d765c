package service

import (
	"context"
	"testing"

	"github.com/pliu/aichat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotes(t *testing.T) {
	n := NewNotes(newTestStore(t))
	ctx := context.Background()

	note, err := n.Create(ctx, "u1", "", "body")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNoteTitle, note.Title)

	_, err = n.Create(ctx, "u1", "t", "")
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, n.Update(ctx, "u1", note.ID, "Renamed", "new body"))
	notes, err := n.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Renamed", notes[0].Title)
	assert.Equal(t, "new body", notes[0].Content)

	assert.ErrorAs(t, n.Update(ctx, "u1", note.ID, "x", ""), &verr)
}

func TestNotes_ForeignNoteIsNoOp(t *testing.T) {
	n := NewNotes(newTestStore(t))
	ctx := context.Background()

	note, err := n.Create(ctx, "owner", "mine", "keep me")
	require.NoError(t, err)

	require.NoError(t, n.Update(ctx, "intruder", note.ID, "hacked", "hacked"))
	require.NoError(t, n.Delete(ctx, "intruder", note.ID))

	notes, err := n.List(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "mine", notes[0].Title)
	assert.Equal(t, "keep me", notes[0].Content)

	require.NoError(t, n.Delete(ctx, "owner", note.ID))
	notes, err = n.List(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, notes)
}
