package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/satish9484/chat-app/internal/conversation/model"
	"github.com/satish9484/chat-app/internal/platform"
	session "github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/pkg/logger"
)

const (
	chatsCollection     = "chats"
	userChatsCollection = "userChats"
	messagesField       = "messages"
)

type ConversationRepository struct {
	docs   platform.DocumentStore
	logger *logger.Logger
}

func NewConversationRepository(docs platform.DocumentStore, log *logger.Logger) *ConversationRepository {
	return &ConversationRepository{docs: docs, logger: log}
}

func (r *ConversationRepository) GetMessages(ctx context.Context, chatID string) ([]model.Message, bool, error) {
	doc, err := r.docs.Get(ctx, chatsCollection, chatID)
	if errors.Is(err, platform.ErrDocumentMissing) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "conversationRepo.GetMessages.Get")
	}
	return parseMessages(doc), true, nil
}

func (r *ConversationRepository) EnsureConversation(ctx context.Context, chatID string, owner, peer session.Principal) error {
	_, err := r.docs.Get(ctx, chatsCollection, chatID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, platform.ErrDocumentMissing) {
		return errors.Wrap(err, "conversationRepo.EnsureConversation.Get")
	}

	if err := r.docs.Set(ctx, chatsCollection, chatID, platform.Document{messagesField: []any{}}, false); err != nil {
		return errors.Wrap(err, "conversationRepo.EnsureConversation.Set")
	}

	now := time.Now()
	if err := r.writeIndexEntry(ctx, owner.UID, chatID, peer, now); err != nil {
		return err
	}
	return r.writeIndexEntry(ctx, peer.UID, chatID, owner, now)
}

func (r *ConversationRepository) writeIndexEntry(ctx context.Context, ownerID, chatID string, peer session.Principal, at time.Time) error {
	data := platform.Document{
		chatID: map[string]any{
			"userInfo": map[string]any(peer.Document()),
			"date":     at,
		},
	}
	if err := r.docs.Set(ctx, userChatsCollection, ownerID, data, true); err != nil {
		return errors.Wrap(err, "conversationRepo.writeIndexEntry.Set")
	}
	return nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, chatID string, msg model.Message) error {
	fields := platform.Document{
		messagesField: platform.ArrayUnion(map[string]any(msg.Document())),
	}
	if err := r.docs.Update(ctx, chatsCollection, chatID, fields); err != nil {
		return errors.Wrap(err, "conversationRepo.AppendMessage.Update")
	}
	return nil
}

func (r *ConversationRepository) ReplaceMessages(ctx context.Context, chatID string, msgs []model.Message) error {
	entries := make([]any, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, map[string]any(m.Document()))
	}
	data := platform.Document{messagesField: entries}
	if err := r.docs.Set(ctx, chatsCollection, chatID, data, false); err != nil {
		return errors.Wrap(err, "conversationRepo.ReplaceMessages.Set")
	}
	return nil
}

func (r *ConversationRepository) TouchIndex(ctx context.Context, ownerID, chatID string, last model.LastMessage) error {
	data := platform.Document{
		chatID: map[string]any{
			"lastMessage": map[string]any{
				"text": last.Text,
				"date": last.Date,
			},
			"date": last.Date,
		},
	}
	if err := r.docs.Set(ctx, userChatsCollection, ownerID, data, true); err != nil {
		return errors.Wrap(err, "conversationRepo.TouchIndex.Set")
	}
	return nil
}

func (r *ConversationRepository) LoadIndex(ctx context.Context, ownerID string) ([]model.IndexEntry, error) {
	doc, err := r.docs.Get(ctx, userChatsCollection, ownerID)
	if errors.Is(err, platform.ErrDocumentMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.LoadIndex.Get")
	}

	entries := make([]model.IndexEntry, 0, len(doc))
	for chatID, raw := range doc {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		entry := model.IndexEntry{ChatID: chatID}
		if info, ok := fields["userInfo"].(map[string]any); ok {
			entry.Peer = session.PrincipalFromDocument(info)
		}
		if t, ok := fields["date"].(time.Time); ok {
			entry.Date = t
		}
		if lm, ok := fields["lastMessage"].(map[string]any); ok {
			last := model.LastMessage{}
			last.Text, _ = lm["text"].(string)
			last.Date, _ = lm["date"].(time.Time)
			entry.LastMessage = &last
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *ConversationRepository) SubscribeMessages(ctx context.Context, chatID string, onChange func([]model.Message, bool), onError func(error)) (func(), error) {
	unsubscribe, err := r.docs.Subscribe(ctx, chatsCollection, chatID,
		func(doc platform.Document, exists bool) {
			if !exists {
				onChange(nil, false)
				return
			}
			onChange(parseMessages(doc), true)
		},
		onError,
	)
	if err != nil {
		return nil, errors.Wrap(err, "conversationRepo.SubscribeMessages.Subscribe")
	}
	return unsubscribe, nil
}

// parseMessages tolerates malformed entries; a half-written array should not
// take down the whole view.
func parseMessages(doc platform.Document) []model.Message {
	raw, _ := doc[messagesField].([]any)
	msgs := make([]model.Message, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		msgs = append(msgs, model.MessageFromDocument(fields))
	}
	return msgs
}
