package session

import (
	"context"

	"github.com/satish9484/chat-app/internal/session/model"
)

// Usecase is the session identity: who is signed in, and the stream of
// identity changes everything else keys off.
type Usecase interface {
	// Register creates the auth account, uploads the avatar when present,
	// finalizes the profile and writes the principal's bootstrap documents.
	Register(ctx context.Context, cmd RegisterCommand) (*model.Principal, error)

	SignIn(ctx context.Context, cmd SignInCommand) (*model.Principal, error)
	SignOut(ctx context.Context) error

	// Current returns the signed-in principal or nil.
	Current() *model.Principal

	// OnChange registers fn for every identity change; it fires once
	// immediately with the current principal.
	OnChange(fn func(*model.Principal)) (unsubscribe func())
}
