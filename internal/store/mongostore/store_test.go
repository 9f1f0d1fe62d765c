package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("skip: MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("aichat_test_%d", time.Now().UnixNano())
	s, err := New(ctx, uri, dbName)
	if err != nil {
		t.Skipf("skip: mongo not available: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		_ = s.db.Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", VerificationToken: "tok"}
	require.NoError(t, s.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "x@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)
	err = s.CreateUser(ctx, &models.User{Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	verified, err := s.VerifyUser(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken)

	_, err = s.VerifyUser(ctx, "tok")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetUserByID(ctx, "not-hex")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecentExchanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.SaveExchange(ctx, &models.ChatExchange{UserID: "u1", Input: fmt.Sprintf("q%d", i), Output: "a"}))
	}
	history, err := s.RecentExchanges(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, history, 10)
	assert.Equal(t, "q5", history[0].Input)
	assert.Equal(t, "q14", history[9].Input)
}

func TestDirectMessagesAndGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDirectMessage(ctx, &models.DirectMessage{SenderID: "a", RecipientID: "b", Content: "1"}))
	require.NoError(t, s.SaveDirectMessage(ctx, &models.DirectMessage{SenderID: "b", RecipientID: "a", Content: "2"}))
	ab, err := s.DirectMessages(ctx, "a", "b", 50)
	require.NoError(t, err)
	ba, err := s.DirectMessages(ctx, "b", "a", 50)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	group := &models.Group{Name: "g", CreatorID: "a", Members: []string{"a", "b"}}
	require.NoError(t, s.CreateGroup(ctx, group))
	groups, err := s.UserGroups(ctx, "b")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, groups[0].Members)
}

func TestNotesOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := &models.Note{UserID: "a", Title: "t", Content: "c"}
	require.NoError(t, s.CreateNote(ctx, note))
	require.NoError(t, s.DeleteNote(ctx, "b", note.ID))

	notes, err := s.Notes(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
