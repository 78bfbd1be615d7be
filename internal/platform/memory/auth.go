package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/pkg/errors"
)

type authUser struct {
	password string
	account  platform.Account
}

type AuthClient struct {
	mu        sync.Mutex
	users     map[string]*authUser
	current   *platform.Account
	listeners map[int]func(*platform.Account)
	nextID    int
	nextUID   int
}

func NewAuthClient() *AuthClient {
	return &AuthClient{
		users:     make(map[string]*authUser),
		listeners: make(map[int]func(*platform.Account)),
	}
}

func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*platform.Account, error) {
	a.mu.Lock()
	if _, exists := a.users[email]; exists {
		a.mu.Unlock()
		return nil, errors.ErrEmailTaken
	}
	a.nextUID++
	account := platform.Account{
		UID:   fmt.Sprintf("uid-%04d", a.nextUID),
		Email: email,
	}
	a.users[email] = &authUser{password: password, account: account}
	a.current = &account
	a.notifyLocked()
	a.mu.Unlock()
	snapshot := account
	return &snapshot, nil
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*platform.Account, error) {
	a.mu.Lock()
	user, exists := a.users[email]
	if !exists || user.password != password {
		a.mu.Unlock()
		return nil, errors.ErrInvalidCredentials
	}
	account := user.account
	a.current = &account
	a.notifyLocked()
	a.mu.Unlock()
	snapshot := account
	return &snapshot, nil
}

func (a *AuthClient) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.notifyLocked()
	a.mu.Unlock()
	return nil
}

func (a *AuthClient) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return errors.ErrNotSignedIn
	}
	user := a.users[a.current.Email]
	if displayName != "" {
		user.account.DisplayName = displayName
		a.current.DisplayName = displayName
	}
	if photoURL != "" {
		user.account.PhotoURL = photoURL
		a.current.PhotoURL = photoURL
	}
	return nil
}

func (a *AuthClient) OnAuthStateChanged(fn func(*platform.Account)) func() {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.listeners[id] = fn
	current := cloneAccount(a.current)
	a.mu.Unlock()

	fn(current)
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *AuthClient) CurrentAccount() *platform.Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneAccount(a.current)
}

// notifyLocked delivers outside the lock so listeners may call back in.
func (a *AuthClient) notifyLocked() {
	fns := make([]func(*platform.Account), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	current := cloneAccount(a.current)
	a.mu.Unlock()
	for _, fn := range fns {
		fn(cloneAccount(current))
	}
	a.mu.Lock()
}

func cloneAccount(account *platform.Account) *platform.Account {
	if account == nil {
		return nil
	}
	snapshot := *account
	return &snapshot
}
