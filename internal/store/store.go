package store

import (
	"context"
	"errors"

	"github.com/pliu/aichat/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// Collection names, shared by both backends and reported by Stats.
const (
	CollUsers          = "users"
	CollChatHistory    = "chat_history"
	CollDirectMessages = "direct_messages"
	CollGroups         = "groups"
	CollGroupMessages  = "group_messages"
	CollNotes          = "notes"
	CollEmailTemplates = "email_templates"
)

// Store is the persistence contract. Read methods that return a bounded window
// take the limit explicitly and always return it oldest-first unless noted.
type Store interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Stats(ctx context.Context) (map[string]int64, error)

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// VerifyUser marks the owner of token verified and clears the token.
	// Returns ErrNotFound when no user holds it.
	VerifyUser(ctx context.Context, token string) (*models.User, error)

	// Email templates
	GetEmailTemplate(ctx context.Context, name string) (*models.EmailTemplate, error)
	UpsertEmailTemplate(ctx context.Context, tmpl *models.EmailTemplate) error

	// Assistant history
	SaveExchange(ctx context.Context, ex *models.ChatExchange) error
	RecentExchanges(ctx context.Context, userID string, limit int) ([]models.ChatExchange, error)
	ClaimOrphanedExchanges(ctx context.Context, userID string) (int64, error)

	// Direct messages
	SaveDirectMessage(ctx context.Context, msg *models.DirectMessage) error
	DirectMessages(ctx context.Context, userA, userB string, limit int) ([]models.DirectMessage, error)

	// Groups
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	// UserGroups returns the groups userID belongs to, newest first.
	UserGroups(ctx context.Context, userID string) ([]models.Group, error)
	SaveGroupMessage(ctx context.Context, msg *models.GroupMessage) error
	GroupMessages(ctx context.Context, groupID string, limit int) ([]models.GroupMessage, error)

	// Notes. Update and Delete match on both note id and owner; a mismatch is
	// not an error.
	CreateNote(ctx context.Context, note *models.Note) error
	// Notes returns the owner's notes, newest first.
	Notes(ctx context.Context, userID string) ([]models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, noteID string) error
}
