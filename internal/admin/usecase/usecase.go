package usecase

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/satish9484/chat-app/internal/admin"
	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

const (
	usersCollection     = "users"
	userChatsCollection = "userChats"
	friendsCollection   = "friends"
	chatsCollection     = "chats"
	messagesField       = "messages"
)

type AdminUsecase struct {
	docs   platform.DocumentStore
	auth   platform.AuthAdmin
	logger *logger.Logger
}

// NewAdminUsecase accepts a nil auth client; document-level moderation still
// works, auth-account operations report a precondition failure.
func NewAdminUsecase(docs platform.DocumentStore, auth platform.AuthAdmin, log *logger.Logger) *AdminUsecase {
	return &AdminUsecase{docs: docs, auth: auth, logger: log}
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]model.Principal, error) {
	snapshots, err := u.docs.List(ctx, usersCollection)
	if err != nil {
		u.logger.Error("error listing users", "err", err)
		return nil, errors.ErrBackendRead(err)
	}

	users := make([]model.Principal, 0, len(snapshots))
	for _, snap := range snapshots {
		p := model.PrincipalFromDocument(snap.Data)
		if p.UID == "" {
			p.UID = snap.ID
		}
		if !p.IsZero() {
			users = append(users, p)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].DisplayName < users[j].DisplayName })
	return users, nil
}

func (u *AdminUsecase) SearchUsers(ctx context.Context, displayName string) ([]model.Principal, error) {
	all, err := u.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]model.Principal, 0, 1)
	for _, p := range all {
		if p.DisplayName == displayName {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (u *AdminUsecase) UpdateUser(ctx context.Context, uid string, update admin.UserUpdate) error {
	if uid == "" {
		return errors.ErrInvalidPeer
	}
	fields := platform.Document{}
	if update.DisplayName != "" {
		fields["displayName"] = update.DisplayName
	}
	if update.PhotoURL != "" {
		fields["photoURL"] = update.PhotoURL
	}
	if len(fields) == 0 {
		return errors.InvalidArg("nothing to update")
	}

	err := u.docs.Update(ctx, usersCollection, uid, fields)
	if stderrors.Is(err, platform.ErrDocumentMissing) {
		return errors.ErrUserNotFound
	}
	if err != nil {
		u.logger.Error("error updating user", "uid", uid, "err", err)
		return errors.ErrBackendWrite(err)
	}
	return nil
}

// DeleteUser removes every document keyed by the uid. Friend-list entries
// held by other users are left to their next load-time repair pass.
func (u *AdminUsecase) DeleteUser(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.ErrInvalidPeer
	}

	for _, collection := range []string{usersCollection, userChatsCollection, friendsCollection} {
		if err := u.docs.Delete(ctx, collection, uid); err != nil {
			u.logger.Error("error deleting user document", "collection", collection, "uid", uid, "err", err)
			return errors.ErrBackendWrite(err)
		}
	}

	if u.auth == nil {
		u.logger.Warn("auth admin not configured, account left behind", "uid", uid)
		return nil
	}
	if err := u.auth.DeleteUser(ctx, uid); err != nil {
		u.logger.Error("error deleting auth account", "uid", uid, "err", err)
		return errors.ErrBackendWrite(err)
	}
	return nil
}

func (u *AdminUsecase) SetUserDisabled(ctx context.Context, uid string, disabled bool) error {
	if uid == "" {
		return errors.ErrInvalidPeer
	}
	if u.auth == nil {
		return errors.FailedPrecondition("auth admin not configured")
	}
	if err := u.auth.SetUserDisabled(ctx, uid, disabled); err != nil {
		u.logger.Error("error toggling account", "uid", uid, "disabled", disabled, "err", err)
		return errors.ErrBackendWrite(err)
	}
	return nil
}

func (u *AdminUsecase) ChatSummaries(ctx context.Context) ([]admin.ChatSummary, error) {
	snapshots, err := u.docs.List(ctx, chatsCollection)
	if err != nil {
		u.logger.Error("error listing chats", "err", err)
		return nil, errors.ErrBackendRead(err)
	}

	summaries := make([]admin.ChatSummary, 0, len(snapshots))
	for _, snap := range snapshots {
		summary := admin.ChatSummary{ChatID: snap.ID}
		raw, _ := snap.Data[messagesField].([]any)
		senders := map[string]struct{}{}
		for _, entry := range raw {
			fields, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			summary.MessageCount++
			if sender, ok := fields["senderId"].(string); ok && sender != "" {
				senders[sender] = struct{}{}
			}
			if t, ok := fields["date"].(time.Time); ok && t.After(summary.LastActivity) {
				summary.LastActivity = t
			}
		}
		for sender := range senders {
			summary.Senders = append(summary.Senders, sender)
		}
		sort.Strings(summary.Senders)
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].LastActivity.After(summaries[j].LastActivity) })
	return summaries, nil
}
