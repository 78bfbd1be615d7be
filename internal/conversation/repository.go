package conversation

import (
	"context"

	"github.com/satish9484/chat-app/internal/conversation/model"
	session "github.com/satish9484/chat-app/internal/session/model"
)

// Repository persists conversation documents and the per-principal
// recent-chats index.
type Repository interface {
	// GetMessages returns the stored sequence and whether the conversation
	// document exists.
	GetMessages(ctx context.Context, chatID string) ([]model.Message, bool, error)

	// EnsureConversation lazily creates the conversation document and both
	// participants' index rows. Existing conversations are left untouched.
	EnsureConversation(ctx context.Context, chatID string, owner, peer session.Principal) error

	// AppendMessage adds msg to the end of the stored sequence.
	AppendMessage(ctx context.Context, chatID string, msg model.Message) error

	// ReplaceMessages overwrites the whole stored sequence (the sync model
	// is full-replace, so deletion is a filtered rewrite).
	ReplaceMessages(ctx context.Context, chatID string, msgs []model.Message) error

	// TouchIndex updates one participant's index row with the latest
	// message summary.
	TouchIndex(ctx context.Context, ownerID, chatID string, last model.LastMessage) error

	// LoadIndex returns every index row for the owner; missing document
	// means no rows.
	LoadIndex(ctx context.Context, ownerID string) ([]model.IndexEntry, error)

	// SubscribeMessages opens the live channel on a conversation document.
	// onChange receives the full current sequence on every push.
	SubscribeMessages(ctx context.Context, chatID string, onChange func([]model.Message, bool), onError func(error)) (func(), error)
}
