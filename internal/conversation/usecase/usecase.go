package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satish9484/chat-app/internal/conversation"
	"github.com/satish9484/chat-app/internal/conversation/model"
	"github.com/satish9484/chat-app/internal/selection"
	"github.com/satish9484/chat-app/internal/session"
	sessionmodel "github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/internal/upload"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

// ConversationSync mirrors the selected conversation's stored message
// sequence into memory. Every push replaces the whole view; optimistic edits
// survive only until the next push.
type ConversationSync struct {
	repo      conversation.Repository
	session   session.Usecase
	selection *selection.State
	uploads   *upload.Coordinator
	friends   conversation.FriendChecker
	logger    *logger.Logger

	mu          sync.Mutex
	chatID      string
	messages    []model.Message
	unsubscribe func()
	// gen fences callbacks from a superseded subscription.
	gen int

	listeners map[int]func([]model.Message)
	nextID    int

	selUnsub func()
}

func NewConversationSync(repo conversation.Repository, sess session.Usecase, sel *selection.State, up *upload.Coordinator, friends conversation.FriendChecker, log *logger.Logger) *ConversationSync {
	s := &ConversationSync{
		repo:      repo,
		session:   sess,
		selection: sel,
		uploads:   up,
		friends:   friends,
		logger:    log,
		chatID:    selection.NoChat,
		listeners: make(map[int]func([]model.Message)),
	}
	s.selUnsub = sel.OnChange(s.onSelectionChange)
	return s
}

// onSelectionChange retargets the live subscription. The previous channel is
// torn down before the new one opens so at most one is live.
func (s *ConversationSync) onSelectionChange(chatID string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	old := s.unsubscribe
	s.unsubscribe = nil
	s.chatID = chatID
	s.messages = nil
	s.mu.Unlock()

	if old != nil {
		old()
	}
	if chatID == selection.NoChat {
		s.notify(nil)
		return
	}

	unsub, err := s.repo.SubscribeMessages(context.Background(), chatID,
		func(msgs []model.Message, exists bool) { s.onPush(gen, msgs, exists) },
		func(err error) { s.onStreamError(gen, chatID, err) },
	)
	if err != nil {
		s.logger.Error("error opening conversation stream", "chat", chatID, "err", err)
		s.notify(nil)
		return
	}

	s.mu.Lock()
	if s.gen != gen {
		// Selection moved on while the subscription was opening.
		s.mu.Unlock()
		unsub()
		return
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
}

func (s *ConversationSync) onPush(gen int, msgs []model.Message, exists bool) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if !exists {
		// Not created yet; the view is empty until the first send.
		msgs = nil
	}
	s.messages = msgs
	view := append([]model.Message(nil), msgs...)
	s.mu.Unlock()
	s.notify(view)
}

// onStreamError leaves the view empty and does not reconnect; selecting the
// peer again opens a fresh subscription.
func (s *ConversationSync) onStreamError(gen int, chatID string, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.messages = nil
	s.unsubscribe = nil
	s.mu.Unlock()

	s.logger.Error("conversation stream failed", "chat", chatID, "err", err)
	s.notify(nil)
}

func (s *ConversationSync) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

func (s *ConversationSync) OnMessages(fn func([]model.Message)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *ConversationSync) SendText(ctx context.Context, body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.ErrEmptyMessage
	}
	owner, peer, chatID, err := s.target()
	if err != nil {
		return err
	}

	msg := model.Message{
		ID:       uuid.NewString(),
		Text:     body,
		SenderID: owner.UID,
		SentAt:   time.Now(),
	}
	return s.deliver(ctx, owner, peer, chatID, msg)
}

func (s *ConversationSync) SendWithAttachment(ctx context.Context, body, fileName string, file io.Reader, size int64) error {
	if file == nil {
		if strings.TrimSpace(body) == "" {
			return errors.ErrEmptyMessage
		}
		return s.SendText(ctx, body)
	}
	owner, peer, chatID, err := s.target()
	if err != nil {
		return err
	}

	url, err := s.uploads.Start(ctx, fileName, file, size)
	if err != nil {
		return err
	}

	text := body
	if strings.TrimSpace(text) == "" {
		text = fileName
	}
	msg := model.Message{
		ID:       uuid.NewString(),
		Text:     text,
		ImageURL: url,
		SenderID: owner.UID,
		SentAt:   time.Now(),
	}
	return s.deliver(ctx, owner, peer, chatID, msg)
}

func (s *ConversationSync) target() (owner, peer sessionmodel.Principal, chatID string, err error) {
	current := s.session.Current()
	if current == nil {
		return owner, peer, "", errors.ErrNotSignedIn
	}
	chatID = s.selection.ChatID()
	if chatID == selection.NoChat {
		return owner, peer, "", errors.ErrNoPeerSelected
	}
	return *current, s.selection.Peer(), chatID, nil
}

func (s *ConversationSync) deliver(ctx context.Context, owner, peer sessionmodel.Principal, chatID string, msg model.Message) error {
	if err := s.repo.EnsureConversation(ctx, chatID, owner, peer); err != nil {
		s.logger.Error("error creating conversation", "chat", chatID, "err", err)
		return errors.ErrBackendWrite(err)
	}
	if err := s.repo.AppendMessage(ctx, chatID, msg); err != nil {
		s.logger.Error("error appending message", "chat", chatID, "err", err)
		return errors.ErrBackendWrite(err)
	}

	// Index rows are denormalized summaries; the message is already
	// delivered, so failures here only stale the recent-chats list.
	last := model.LastMessage{Text: msg.Text, Date: msg.SentAt}
	if err := s.repo.TouchIndex(ctx, owner.UID, chatID, last); err != nil {
		s.logger.Warn("own index update failed", "chat", chatID, "err", err)
	}
	if err := s.repo.TouchIndex(ctx, peer.UID, chatID, last); err != nil {
		s.logger.Warn("peer index update failed", "chat", chatID, "err", err)
	}
	return nil
}

func (s *ConversationSync) DeleteMessage(ctx context.Context, messageID string) error {
	s.mu.Lock()
	chatID := s.chatID
	if chatID == selection.NoChat {
		s.mu.Unlock()
		return errors.ErrNoPeerSelected
	}
	found := false
	filtered := make([]model.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if m.ID == messageID {
			found = true
			continue
		}
		filtered = append(filtered, m)
	}
	if !found {
		s.mu.Unlock()
		return errors.ErrMessageNotFound
	}
	// Optimistic: drop locally first, the next push settles it either way.
	s.messages = filtered
	view := append([]model.Message(nil), filtered...)
	s.mu.Unlock()
	s.notify(view)

	if err := s.repo.ReplaceMessages(ctx, chatID, filtered); err != nil {
		s.logger.Error("error deleting message", "chat", chatID, "message", messageID, "err", err)
		return errors.ErrBackendWrite(err)
	}
	return nil
}

func (s *ConversationSync) RecentChats(ctx context.Context) ([]model.IndexEntry, error) {
	owner := s.session.Current()
	if owner == nil {
		return nil, errors.ErrNotSignedIn
	}

	entries, err := s.repo.LoadIndex(ctx, owner.UID)
	if err != nil {
		s.logger.Error("error loading recent chats", "owner", owner.UID, "err", err)
		return nil, errors.ErrBackendRead(err)
	}

	if s.friends != nil {
		kept := entries[:0]
		for _, e := range entries {
			if s.friends.IsFriend(e.Peer.UID) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	sort.Slice(entries, func(i, j int) bool {
		ki, kj := entries[i].SortKey(), entries[j].SortKey()
		if ki.Equal(kj) {
			return entries[i].ChatID < entries[j].ChatID
		}
		return ki.After(kj)
	})
	return entries, nil
}

func (s *ConversationSync) Close() {
	if s.selUnsub != nil {
		s.selUnsub()
	}
	s.mu.Lock()
	s.gen++
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.messages = nil
	s.chatID = selection.NoChat
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *ConversationSync) notify(view []model.Message) {
	s.mu.Lock()
	fns := make([]func([]model.Message), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(view)
	}
}
