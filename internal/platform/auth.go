package platform

import "context"

// AuthClient is the hosted email/password authentication service, including
// its auth-state stream.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignOut(ctx context.Context) error

	// UpdateProfile mutates the signed-in account's display name and/or
	// photo URL. Empty arguments leave the field untouched.
	UpdateProfile(ctx context.Context, displayName, photoURL string) error

	// OnAuthStateChanged registers fn for every identity change; it fires
	// once immediately with the current account (nil when signed out).
	OnAuthStateChanged(fn func(*Account)) (unsubscribe func())

	// CurrentAccount returns the signed-in account or nil.
	CurrentAccount() *Account
}

// AuthAdmin is the privileged moderation surface of the auth service.
type AuthAdmin interface {
	DeleteUser(ctx context.Context, uid string) error
	SetUserDisabled(ctx context.Context, uid string, disabled bool) error
}
