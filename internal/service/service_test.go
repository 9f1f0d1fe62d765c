package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pliu/aichat/internal/auth"
	"github.com/pliu/aichat/internal/store/sqlstore"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

// tokenFrom pulls the verification token out of a rendered mail body.
func tokenFrom(t *testing.T, body string) string {
	t.Helper()
	const marker = "/api/auth/verify/"
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "no verification link in %q", body)
	rest := body[i+len(marker):]
	return rest[:strings.IndexByte(rest, '"')]
}

func newTestStore(t *testing.T) *sqlstore.SQLStore {
	t.Helper()
	s, err := sqlstore.New(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func newAccounts(t *testing.T) (*Accounts, *sqlstore.SQLStore, *fakeMailer) {
	t.Helper()
	s := newTestStore(t)
	m := &fakeMailer{}
	return NewAccounts(s, auth.NewIssuer("test-secret", time.Hour), m), s, m
}

var errSMTP = errors.New("connection refused")
