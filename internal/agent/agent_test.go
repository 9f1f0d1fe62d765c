package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pliu/aichat/internal/llm"
	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	calls [][]llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	f.calls = append(f.calls, msgs)
	return f.reply, f.err
}

func newStore(t *testing.T) *sqlstore.SQLStore {
	t.Helper()
	s, err := sqlstore.New(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestRespond_FirstTurn(t *testing.T) {
	s := newStore(t)
	c := &fakeCompleter{reply: "Hi!"}
	a := New(s, c)

	out := a.Respond(context.Background(), "u1", "Hello")
	require.True(t, out.OK, out.Err)
	assert.Equal(t, "Hi!", out.Reply())

	require.Len(t, c.calls, 1)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: "Hello"},
	}, c.calls[0])

	history, err := s.RecentExchanges(context.Background(), "u1", HistoryWindow)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Hello", history[0].Input)
	assert.Equal(t, "Hi!", history[0].Output)
}

func TestRespond_WindowOfTen(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		require.NoError(t, s.SaveExchange(ctx, &models.ChatExchange{UserID: "u1", Input: fmt.Sprintf("q%d", i), Output: fmt.Sprintf("a%d", i)}))
	}
	c := &fakeCompleter{reply: "ok"}

	out := New(s, c).Respond(ctx, "u1", "next")
	require.True(t, out.OK)

	msgs := c.calls[0]
	require.Len(t, msgs, 1+2*HistoryWindow+1)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "q2"}, msgs[1])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "a2"}, msgs[2])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "q11"}, msgs[19])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "next"}, msgs[21])
}

func TestRespond_HistoryIsPerUser(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveExchange(ctx, &models.ChatExchange{UserID: "other", Input: "secret", Output: "x"}))
	c := &fakeCompleter{reply: "ok"}

	New(s, c).Respond(ctx, "u1", "hi")
	assert.Len(t, c.calls[0], 2)
}

func TestRespond_Failures(t *testing.T) {
	tests := []struct {
		name   string
		c      *fakeCompleter
		reason Reason
	}{
		{"inference error", &fakeCompleter{err: errors.New("401 unauthorized")}, ReasonInference},
		{"empty reply", &fakeCompleter{err: llm.ErrEmptyReply}, ReasonEmptyReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			out := New(s, tt.c).Respond(context.Background(), "u1", "hi")

			assert.False(t, out.OK)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, FallbackReply, out.Reply())

			history, err := s.RecentExchanges(context.Background(), "u1", HistoryWindow)
			require.NoError(t, err)
			assert.Empty(t, history, "failed turns are not persisted")
		})
	}
}

func TestRespond_StoreUnavailable(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Close(context.Background()))
	c := &fakeCompleter{reply: "ok"}

	out := New(s, c).Respond(context.Background(), "u1", "hi")
	assert.False(t, out.OK)
	assert.Equal(t, ReasonHistory, out.Reason)
	assert.Empty(t, c.calls)
}
