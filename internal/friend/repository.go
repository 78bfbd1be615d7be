package friend

import (
	"context"

	"github.com/satish9484/chat-app/internal/session/model"
)

// Repository persists the per-principal friends list.
type Repository interface {
	// Load returns the owner's ordered friends list; a missing document is
	// an empty list, not an error.
	Load(ctx context.Context, ownerID string) ([]model.Principal, error)

	// Append adds entry to the owner's list unless an identical summary is
	// already present (array-union semantics). Creates the document when
	// missing.
	Append(ctx context.Context, ownerID string, entry model.Principal) error

	// Replace overwrites the owner's whole list.
	Replace(ctx context.Context, ownerID string, list []model.Principal) error
}
