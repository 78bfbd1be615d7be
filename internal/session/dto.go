package session

import "io"

// Input commands, as they travel from the caller into the usecase.

type RegisterCommand struct {
	DisplayName string `validate:"required,min=2,max=30"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`

	// Optional avatar; uploaded before the profile is finalized.
	Avatar     io.Reader
	AvatarName string
	AvatarSize int64
}

type SignInCommand struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}
