package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/internal/session"
	"github.com/satish9484/chat-app/internal/session/model"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

const (
	usersCollection     = "users"
	userChatsCollection = "userChats"
)

type SessionUsecase struct {
	auth     platform.AuthClient
	docs     platform.DocumentStore
	blobs    platform.BlobStore
	logger   *logger.Logger
	validate *validator.Validate

	mu        sync.Mutex
	current   *model.Principal
	listeners map[int]func(*model.Principal)
	nextID    int
}

func NewSessionUsecase(auth platform.AuthClient, docs platform.DocumentStore, blobs platform.BlobStore, log *logger.Logger) *SessionUsecase {
	uc := &SessionUsecase{
		auth:      auth,
		docs:      docs,
		blobs:     blobs,
		logger:    log,
		validate:  validator.New(),
		listeners: make(map[int]func(*model.Principal)),
	}
	uc.auth.OnAuthStateChanged(func(account *platform.Account) {
		uc.setCurrent(model.PrincipalFromAccount(account))
	})
	return uc
}

func (uc *SessionUsecase) Register(ctx context.Context, cmd session.RegisterCommand) (*model.Principal, error) {
	if err := uc.validate.Struct(cmd); err != nil {
		return nil, errors.InvalidArg(err.Error())
	}
	if err := validatePassword(cmd.Password); err != nil {
		return nil, err
	}

	taken, err := uc.displayNameTaken(ctx, cmd.DisplayName)
	if err != nil {
		uc.logger.Error("error checking display name availability", "err", err)
		return nil, errors.Internal("internal server error")
	}
	if taken {
		return nil, errors.ErrDisplayNameTaken
	}

	account, err := uc.auth.SignUp(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	photoURL := ""
	if cmd.Avatar != nil {
		key := fmt.Sprintf("%s%d", cmd.AvatarName, time.Now().UnixMilli())
		photoURL, err = uc.blobs.Upload(ctx, key, cmd.Avatar, cmd.AvatarSize, nil)
		if err != nil {
			uc.logger.Error("avatar upload failed", "err", err)
			return nil, errors.ErrRegistrationFailed(err)
		}
	}

	if err := uc.auth.UpdateProfile(ctx, cmd.DisplayName, photoURL); err != nil {
		uc.logger.Error("profile update failed", "err", err)
		return nil, errors.ErrRegistrationFailed(err)
	}

	principal := model.Principal{
		UID:         account.UID,
		DisplayName: cmd.DisplayName,
		Email:       account.Email,
		PhotoURL:    photoURL,
	}
	if err := uc.docs.Set(ctx, usersCollection, principal.UID, principal.Document(), false); err != nil {
		uc.logger.Error("error writing profile document", "uid", principal.UID, "err", err)
		return nil, errors.ErrRegistrationFailed(err)
	}
	// Empty recent-chats index so the first send has a document to merge
	// into.
	if err := uc.docs.Set(ctx, userChatsCollection, principal.UID, platform.Document{}, false); err != nil {
		uc.logger.Error("error writing chat index document", "uid", principal.UID, "err", err)
		return nil, errors.ErrRegistrationFailed(err)
	}

	uc.setCurrent(&principal)
	snapshot := principal
	return &snapshot, nil
}

func (uc *SessionUsecase) SignIn(ctx context.Context, cmd session.SignInCommand) (*model.Principal, error) {
	if err := uc.validate.Struct(cmd); err != nil {
		return nil, errors.InvalidArg(err.Error())
	}

	account, err := uc.auth.SignIn(ctx, cmd.Email, cmd.Password)
	if err != nil {
		uc.logger.Warn("sign-in rejected", "email", cmd.Email)
		return nil, err
	}

	principal := model.PrincipalFromAccount(account)
	// Auth's profile can lag behind the stored one; the profile document is
	// authoritative for display fields.
	if doc, err := uc.docs.Get(ctx, usersCollection, account.UID); err == nil {
		stored := model.PrincipalFromDocument(doc)
		if stored.DisplayName != "" {
			principal.DisplayName = stored.DisplayName
		}
		if stored.PhotoURL != "" {
			principal.PhotoURL = stored.PhotoURL
		}
	}

	uc.setCurrent(principal)
	snapshot := *principal
	return &snapshot, nil
}

func (uc *SessionUsecase) SignOut(ctx context.Context) error {
	if err := uc.auth.SignOut(ctx); err != nil {
		return errors.ErrBackendWrite(err)
	}
	uc.setCurrent(nil)
	return nil
}

func (uc *SessionUsecase) Current() *model.Principal {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return clonePrincipal(uc.current)
}

func (uc *SessionUsecase) OnChange(fn func(*model.Principal)) func() {
	uc.mu.Lock()
	uc.nextID++
	id := uc.nextID
	uc.listeners[id] = fn
	current := clonePrincipal(uc.current)
	uc.mu.Unlock()

	fn(current)
	return func() {
		uc.mu.Lock()
		delete(uc.listeners, id)
		uc.mu.Unlock()
	}
}

func (uc *SessionUsecase) setCurrent(p *model.Principal) {
	uc.mu.Lock()
	same := (p == nil && uc.current == nil) ||
		(p != nil && uc.current != nil && *p == *uc.current)
	if same {
		uc.mu.Unlock()
		return
	}
	uc.current = clonePrincipal(p)
	fns := make([]func(*model.Principal), 0, len(uc.listeners))
	for _, fn := range uc.listeners {
		fns = append(fns, fn)
	}
	uc.mu.Unlock()

	for _, fn := range fns {
		fn(clonePrincipal(p))
	}
}

func (uc *SessionUsecase) displayNameTaken(ctx context.Context, displayName string) (bool, error) {
	snapshots, err := uc.docs.List(ctx, usersCollection)
	if err != nil {
		return false, err
	}
	for _, snap := range snapshots {
		stored := model.PrincipalFromDocument(snap.Data)
		if strings.EqualFold(stored.DisplayName, displayName) {
			return true, nil
		}
	}
	return false, nil
}

func validatePassword(password string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.InvalidArg("password must contain an uppercase letter, a lowercase letter and a number")
	}
	return nil
}

func clonePrincipal(p *model.Principal) *model.Principal {
	if p == nil {
		return nil
	}
	snapshot := *p
	return &snapshot
}
