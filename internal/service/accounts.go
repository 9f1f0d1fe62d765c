package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pliu/aichat/internal/auth"
	"github.com/pliu/aichat/internal/email"
	"github.com/pliu/aichat/internal/metrics"
	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
	"github.com/rs/zerolog"
)

// Accounts covers registration, email verification and login.
type Accounts struct {
	store  store.Store
	issuer *auth.Issuer
	mailer email.Mailer
}

func NewAccounts(s store.Store, issuer *auth.Issuer, mailer email.Mailer) *Accounts {
	return &Accounts{store: s, issuer: issuer, mailer: mailer}
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// Register creates an unverified user and mails the verification link, which
// is built as baseURL + "/api/auth/verify/" + token. A mail failure is logged
// and does not fail the registration.
func (a *Accounts) Register(ctx context.Context, in RegisterInput, baseURL string) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, ValidationError("Username, email, and password required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := auth.NewVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("verification token: %w", err)
	}

	user := &models.User{
		Username:          in.Username,
		Email:             in.Email,
		Password:          hash,
		VerificationToken: token,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	link := strings.TrimRight(baseURL, "/") + "/api/auth/verify/" + token
	a.sendVerification(ctx, user, link)
	return user, nil
}

func (a *Accounts) sendVerification(ctx context.Context, user *models.User, link string) {
	l := zerolog.Ctx(ctx)
	l.Info().Str("user_id", user.ID).Str("link", link).Msg("verification link")

	tmpl := a.verificationTemplate(ctx)
	subject, body := email.Render(tmpl, link)
	if err := a.mailer.Send(ctx, user.Email, subject, body); err != nil {
		metrics.VerificationMails.WithLabelValues("failed").Inc()
		l.Error().Err(err).Str("user_id", user.ID).Msg("send verification email")
		return
	}
	metrics.VerificationMails.WithLabelValues("sent").Inc()
}

// verificationTemplate loads the stored template, seeding the default on
// first use.
func (a *Accounts) verificationTemplate(ctx context.Context) models.EmailTemplate {
	l := zerolog.Ctx(ctx)
	tmpl, err := a.store.GetEmailTemplate(ctx, email.VerificationTemplate)
	if err == nil {
		return *tmpl
	}
	def := email.DefaultVerification
	if !errors.Is(err, store.ErrNotFound) {
		l.Error().Err(err).Msg("load verification template")
		return def
	}
	if err := a.store.UpsertEmailTemplate(ctx, &def); err != nil {
		l.Error().Err(err).Msg("seed verification template")
	}
	return def
}

// Verify redeems a verification token. Unknown tokens report false.
func (a *Accounts) Verify(ctx context.Context, token string) (bool, error) {
	if _, err := a.store.VerifyUser(ctx, token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

func (a *Accounts) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ValidationError("Username and password required")
	}
	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidPassword
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	token, err := a.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, Username: user.Username, UserID: user.ID}, nil
}

// OtherUsers lists every user except userID.
func (a *Accounts) OtherUsers(ctx context.Context, userID string) ([]models.User, error) {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	return out, nil
}
