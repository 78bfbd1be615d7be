package platform

import "context"

// DocumentStore is the promise-style read/write plus push-subscription
// surface of the hosted document database.
type DocumentStore interface {
	// Get returns the document or ErrDocumentMissing.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes the whole document. With merge, existing fields not named
	// in data survive and nested maps merge recursively.
	Set(ctx context.Context, collection, id string, data Document, merge bool) error

	// Update patches named fields on an existing document. Field names may
	// be dotted paths into nested maps. Returns ErrDocumentMissing when the
	// document does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes the document. Deleting a missing document is not an
	// error.
	Delete(ctx context.Context, collection, id string) error

	// List returns every document in the collection.
	List(ctx context.Context, collection string) ([]Snapshot, error)

	// Subscribe opens a live channel on one document. onChange fires with
	// the document's full current state on every change (exists=false when
	// the document is absent or deleted) and fires once immediately with
	// the current state. onError terminates the subscription. The returned
	// func tears the subscription down; calling it more than once is safe.
	Subscribe(ctx context.Context, collection, id string, onChange func(Document, bool), onError func(error)) (func(), error)
}
