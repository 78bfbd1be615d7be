package conversation

import (
	"context"
	"io"

	"github.com/satish9484/chat-app/internal/conversation/model"
)

// FriendChecker narrows the recent-chats view to current friends. Satisfied
// by the friend directory.
type FriendChecker interface {
	IsFriend(uid string) bool
}

// Usecase keeps the active conversation's message list live and sends,
// deletes and lists messages. The active conversation follows the chat
// selection; pushes from the backend are authoritative over local edits.
type Usecase interface {
	// Messages returns the current view of the active conversation.
	Messages() []model.Message

	// OnMessages registers fn for every change of the view.
	OnMessages(fn func([]model.Message)) (unsubscribe func())

	// SendText appends a text message to the active conversation, creating
	// the conversation lazily on first send.
	SendText(ctx context.Context, body string) error

	// SendWithAttachment uploads file first, then appends a message carrying
	// the durable URL. A failed upload writes no message. With an empty body
	// the file name stands in as the text.
	SendWithAttachment(ctx context.Context, body, fileName string, file io.Reader, size int64) error

	// DeleteMessage removes one message by id: the local view drops it
	// immediately, then the stored sequence is rewritten without it.
	DeleteMessage(ctx context.Context, messageID string) error

	// RecentChats returns the signed-in principal's conversations, current
	// friends only, most recent activity first.
	RecentChats(ctx context.Context) ([]model.IndexEntry, error)

	// Close tears down the live subscription and the selection hook.
	Close()
}
