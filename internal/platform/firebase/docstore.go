package firebase

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/pkg/logger"
)

type DocumentStore struct {
	client *firestore.Client
	logger *logger.Logger
}

func NewDocumentStore(client *firestore.Client, log *logger.Logger) *DocumentStore {
	return &DocumentStore{client: client, logger: log}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (platform.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, platform.ErrDocumentMissing
	}
	if err != nil {
		return nil, errors.Wrap(err, "docstore.Get")
	}
	return snap.Data(), nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data platform.Document, merge bool) error {
	doc := s.client.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = doc.Set(ctx, toFirestore(data), firestore.MergeAll)
	} else {
		_, err = doc.Set(ctx, toFirestore(data))
	}
	return errors.Wrap(err, "docstore.Set")
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields platform.Document) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: toFirestoreValue(value)})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return platform.ErrDocumentMissing
	}
	return errors.Wrap(err, "docstore.Update")
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return errors.Wrap(err, "docstore.Delete")
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]platform.Snapshot, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	var out []platform.Snapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "docstore.List")
		}
		out = append(out, platform.Snapshot{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (s *DocumentStore) Subscribe(ctx context.Context, collection, id string, onChange func(platform.Document, bool), onError func(error)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	snaps := s.client.Collection(collection).Doc(id).Snapshots(subCtx)

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || subCtx.Err() != nil {
					return
				}
				s.logger.Error("document snapshot stream failed", "collection", collection, "id", id, "err", err)
				onError(err)
				return
			}
			if snap.Exists() {
				onChange(snap.Data(), true)
			} else {
				onChange(nil, false)
			}
		}
	}()

	return cancel, nil
}

// toFirestore rewrites platform sentinel values into firestore transforms.
func toFirestore(data platform.Document) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = toFirestoreValue(v)
	}
	return out
}

func toFirestoreValue(v any) any {
	switch t := v.(type) {
	case platform.ArrayUnionValue:
		return firestore.ArrayUnion(t.Values...)
	case map[string]any:
		return toFirestore(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = toFirestoreValue(elem)
		}
		return out
	default:
		return v
	}
}
