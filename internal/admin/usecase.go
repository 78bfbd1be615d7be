package admin

import (
	"context"
	"time"

	"github.com/satish9484/chat-app/internal/session/model"
)

// UserUpdate names the profile fields moderation may rewrite. Empty fields
// are left untouched.
type UserUpdate struct {
	DisplayName string
	PhotoURL    string
}

// ChatSummary is a moderation-side digest of one conversation document.
type ChatSummary struct {
	ChatID       string
	MessageCount int
	LastActivity time.Time
	Senders      []string
}

// Usecase is the privileged moderation surface: it reads and mutates user
// documents directly and, when admin credentials are configured, the auth
// accounts behind them.
type Usecase interface {
	ListUsers(ctx context.Context) ([]model.Principal, error)

	// SearchUsers matches the exact display name.
	SearchUsers(ctx context.Context, displayName string) ([]model.Principal, error)

	UpdateUser(ctx context.Context, uid string, update UserUpdate) error

	// DeleteUser removes the profile, chat index and friend documents, then
	// the auth account itself when the admin client is available.
	DeleteUser(ctx context.Context, uid string) error

	SetUserDisabled(ctx context.Context, uid string, disabled bool) error

	ChatSummaries(ctx context.Context) ([]ChatSummary, error)
}
