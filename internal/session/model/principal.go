package model

import (
	"github.com/satish9484/chat-app/internal/platform"
)

// Principal is an authenticated user identity as the rest of the client sees
// it: profile fields only, no tokens.
type Principal struct {
	UID         string `json:"uid" firestore:"uid"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	Email       string `json:"email" firestore:"email"`
	PhotoURL    string `json:"photoURL" firestore:"photoURL"`
}

func (p Principal) IsZero() bool { return p.UID == "" }

// Document renders the principal as a stored summary (the shape embedded in
// friends lists and conversation index rows).
func (p Principal) Document() platform.Document {
	return platform.Document{
		"uid":         p.UID,
		"displayName": p.DisplayName,
		"email":       p.Email,
		"photoURL":    p.PhotoURL,
	}
}

func PrincipalFromDocument(doc platform.Document) Principal {
	return Principal{
		UID:         stringField(doc, "uid"),
		DisplayName: stringField(doc, "displayName"),
		Email:       stringField(doc, "email"),
		PhotoURL:    stringField(doc, "photoURL"),
	}
}

func PrincipalFromAccount(account *platform.Account) *Principal {
	if account == nil {
		return nil
	}
	return &Principal{
		UID:         account.UID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		PhotoURL:    account.PhotoURL,
	}
}

func stringField(doc platform.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}
