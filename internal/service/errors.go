package service

import (
	"errors"

	"github.com/pliu/aichat/internal/store"
)

// Business errors. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrUsernameTaken   = store.ErrDuplicateUsername
	ErrEmailTaken      = store.ErrDuplicateEmail
	ErrUserNotFound    = errors.New("User not found")
	ErrInvalidPassword = errors.New("Invalid password")
	ErrNotVerified     = errors.New("Please verify your email before logging in.")
	ErrGroupNotFound   = errors.New("group not found")
	ErrNotMember       = errors.New("not a member of this group")
)

// ValidationError reports a missing or malformed request field. Its text is
// safe to show to clients.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
