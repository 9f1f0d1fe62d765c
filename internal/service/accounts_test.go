package service

import (
	"context"
	"testing"
	"time"

	"github.com/pliu/aichat/internal/auth"
	"github.com/pliu/aichat/internal/email"
	"github.com/pliu/aichat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	a, s, m := newAccounts(t)
	ctx := context.Background()

	user, err := a.Register(ctx, RegisterInput{Username: "alice", Password: "pw", Email: "alice@example.com"}, "http://localhost:7860/")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "pw", user.Password)
	assert.True(t, auth.VerifyPassword(user.Password, "pw"))

	require.Len(t, m.sent, 1)
	assert.Equal(t, "alice@example.com", m.sent[0].to)
	assert.Equal(t, "Verify your Email", m.sent[0].subject)
	assert.Contains(t, m.sent[0].body, `<a href="http://localhost:7860/api/auth/verify/`+user.VerificationToken+`">`)

	tmpl, err := s.GetEmailTemplate(ctx, email.VerificationTemplate)
	require.NoError(t, err, "default template is seeded on first use")
	assert.Equal(t, email.DefaultVerification.Body, tmpl.Body)
}

func TestRegister_UsesStoredTemplate(t *testing.T) {
	a, s, m := newAccounts(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertEmailTemplate(ctx, &models.EmailTemplate{Name: email.VerificationTemplate, Subject: "Welcome", Body: "Go: {{link}}"}))

	_, err := a.Register(ctx, RegisterInput{Username: "bob", Password: "pw", Email: "bob@example.com"}, "http://h")
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Welcome", m.sent[0].subject)
	assert.Contains(t, m.sent[0].body, `Go: <a href="http://h/api/auth/verify/`)
}

func TestRegister_Validation(t *testing.T) {
	a, _, _ := newAccounts(t)

	for _, in := range []RegisterInput{
		{Password: "pw", Email: "e@x"},
		{Username: "u", Email: "e@x"},
		{Username: "u", Password: "pw"},
		{Username: "   ", Password: "pw", Email: "e@x"},
	} {
		_, err := a.Register(context.Background(), in, "http://h")
		var verr ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestRegister_Duplicates(t *testing.T) {
	a, _, _ := newAccounts(t)
	ctx := context.Background()

	_, err := a.Register(ctx, RegisterInput{Username: "alice", Password: "pw", Email: "alice@example.com"}, "http://h")
	require.NoError(t, err)

	_, err = a.Register(ctx, RegisterInput{Username: "alice", Password: "pw", Email: "other@example.com"}, "http://h")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = a.Register(ctx, RegisterInput{Username: "alice2", Password: "pw", Email: "alice@example.com"}, "http://h")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_MailFailureStillRegisters(t *testing.T) {
	a, s, m := newAccounts(t)
	m.err = errSMTP

	user, err := a.Register(context.Background(), RegisterInput{Username: "carol", Password: "pw", Email: "c@example.com"}, "http://h")
	require.NoError(t, err)

	got, err := s.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Username)
}

func TestLoginGatedOnVerification(t *testing.T) {
	a, _, m := newAccounts(t)
	ctx := context.Background()

	_, err := a.Register(ctx, RegisterInput{Username: "dave", Password: "secret", Email: "d@example.com"}, "http://h")
	require.NoError(t, err)

	_, err = a.Login(ctx, "dave", "secret")
	assert.ErrorIs(t, err, ErrNotVerified)

	ok, err := a.Verify(ctx, tokenFrom(t, m.sent[0].body))
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := a.Login(ctx, "dave", "secret")
	require.NoError(t, err)
	assert.Equal(t, "dave", res.Username)
	assert.NotEmpty(t, res.UserID)

	claims, err := auth.NewIssuer("test-secret", time.Hour).Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, claims.UserID)
	assert.Equal(t, "dave", claims.Username)
}

func TestLogin_Errors(t *testing.T) {
	a, _, m := newAccounts(t)
	ctx := context.Background()
	_, err := a.Register(ctx, RegisterInput{Username: "erin", Password: "secret", Email: "e@example.com"}, "http://h")
	require.NoError(t, err)

	_, err = a.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = a.Login(ctx, "erin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword, "password is checked before verification")

	_, err = a.Login(ctx, "erin", "")
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)

	_, _ = a.Verify(ctx, tokenFrom(t, m.sent[0].body))
	_, err = a.Login(ctx, "erin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestVerify_UnknownToken(t *testing.T) {
	a, _, _ := newAccounts(t)

	for _, tok := range []string{"nope", ""} {
		ok, err := a.Verify(context.Background(), tok)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestVerify_TokenIsSingleUse(t *testing.T) {
	a, _, m := newAccounts(t)
	ctx := context.Background()
	_, err := a.Register(ctx, RegisterInput{Username: "fay", Password: "pw", Email: "f@example.com"}, "http://h")
	require.NoError(t, err)
	tok := tokenFrom(t, m.sent[0].body)

	ok, err := a.Verify(ctx, tok)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Verify(ctx, tok)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOtherUsers(t *testing.T) {
	a, s, _ := newAccounts(t)
	ctx := context.Background()
	for _, name := range []string{"zed", "amy", "me"} {
		require.NoError(t, s.CreateUser(ctx, &models.User{Username: name, Email: name + "@example.com", Password: "h"}))
	}
	me, err := s.GetUserByUsername(ctx, "me")
	require.NoError(t, err)

	users, err := a.OtherUsers(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].Username)
	assert.Equal(t, "zed", users[1].Username)
}
