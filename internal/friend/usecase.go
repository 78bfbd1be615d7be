package friend

import (
	"context"

	"github.com/satish9484/chat-app/internal/session/model"
)

// Directory maintains the current principal's friend list and mutates the
// symmetric relation.
type Directory interface {
	// LoadFriends reads the owner's list (missing document means empty)
	// and runs a best-effort repair pass over asymmetric entries.
	LoadFriends(ctx context.Context) ([]model.Principal, error)

	// AddFriend appends target to the owner's list and, best-effort, the
	// owner's summary to target's list. Idempotent: an existing entry is a
	// no-op success. On success the target becomes the active chat partner.
	AddFriend(ctx context.Context, target model.Principal) error

	// Removal is two-phase: request, then confirm (or cancel).
	RequestRemoval(target model.Principal) error
	ConfirmRemoval(ctx context.Context) error
	CancelRemoval()
	PendingRemoval() *model.Principal

	// IsFriend tests membership by id against the loaded list.
	IsFriend(uid string) bool

	// Friends returns the cached list from the last load/mutation.
	Friends() []model.Principal

	// AddingFriend reports the uid currently being added, for progress UI.
	AddingFriend() string
}
