package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/pkg/logger"
)

const (
	friendsCollection = "friends"
	friendsListField  = "friendsList"
)

type FriendRepository struct {
	docs   platform.DocumentStore
	logger *logger.Logger
}

func NewFriendRepository(docs platform.DocumentStore, log *logger.Logger) *FriendRepository {
	return &FriendRepository{docs: docs, logger: log}
}

func (r *FriendRepository) Load(ctx context.Context, ownerID string) ([]model.Principal, error) {
	doc, err := r.docs.Get(ctx, friendsCollection, ownerID)
	if errors.Is(err, platform.ErrDocumentMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "friendRepo.Load.Get")
	}

	raw, _ := doc[friendsListField].([]any)
	list := make([]model.Principal, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		p := model.PrincipalFromDocument(fields)
		if !p.IsZero() {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *FriendRepository) Append(ctx context.Context, ownerID string, entry model.Principal) error {
	data := platform.Document{
		friendsListField: platform.ArrayUnion(map[string]any(entry.Document())),
	}
	if err := r.docs.Set(ctx, friendsCollection, ownerID, data, true); err != nil {
		return errors.Wrap(err, "friendRepo.Append.Set")
	}
	return nil
}

func (r *FriendRepository) Replace(ctx context.Context, ownerID string, list []model.Principal) error {
	entries := make([]any, 0, len(list))
	for _, p := range list {
		entries = append(entries, map[string]any(p.Document()))
	}
	data := platform.Document{friendsListField: entries}
	if err := r.docs.Set(ctx, friendsCollection, ownerID, data, false); err != nil {
		return errors.Wrap(err, "friendRepo.Replace.Set")
	}
	return nil
}
