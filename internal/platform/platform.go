// Package platform is the boundary to the hosted backend: authentication,
// document store with push subscriptions, and blob storage. Everything the
// client core persists or syncs goes through these interfaces; the firebase
// subpackage is the production implementation, the memory subpackage backs
// tests and offline mode.
package platform

import (
	"errors"
	"time"
)

// Document is the unit of storage: a JSON-ish field map keyed by field name.
// Values are strings, numbers, bools, time.Time, nested Documents /
// map[string]any, or []any.
type Document = map[string]any

// Snapshot pairs a document with its id, for collection listings.
type Snapshot struct {
	ID   string
	Data Document
}

// ErrDocumentMissing is returned by Get and Update when the target document
// does not exist. Callers that treat missing as empty-state check for it
// with errors.Is.
var ErrDocumentMissing = errors.New("platform: document missing")

// ArrayUnionValue marks a field write as "append these values unless already
// present", mirroring the document store's array-union transform. Stores
// resolve it atomically server-side.
type ArrayUnionValue struct {
	Values []any
}

func ArrayUnion(values ...any) ArrayUnionValue {
	return ArrayUnionValue{Values: values}
}

// Account is the authenticated identity as the auth service reports it.
type Account struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string

	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}
