package firebase

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
)

// AuthAdmin wraps the Admin SDK's privileged user operations; the moderation
// usecase is its only caller.
type AuthAdmin struct {
	client *fbauth.Client
}

func NewAuthAdmin(client *fbauth.Client) *AuthAdmin {
	return &AuthAdmin{client: client}
}

func (a *AuthAdmin) DeleteUser(ctx context.Context, uid string) error {
	return errors.Wrap(a.client.DeleteUser(ctx, uid), "authadmin.DeleteUser")
}

func (a *AuthAdmin) SetUserDisabled(ctx context.Context, uid string, disabled bool) error {
	update := (&fbauth.UserToUpdate{}).Disabled(disabled)
	_, err := a.client.UpdateUser(ctx, uid, update)
	return errors.Wrap(err, "authadmin.SetUserDisabled")
}
