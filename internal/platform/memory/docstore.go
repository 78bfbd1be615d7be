// Package memory implements the platform interfaces in-process. It backs the
// test suite and offline mode; push fan-out is synchronous so tests observe
// every snapshot deterministically.
package memory

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/satish9484/chat-app/internal/platform"
)

type subscriber struct {
	id       int
	onChange func(platform.Document, bool)
	onError  func(error)
}

type DocumentStore struct {
	mu          sync.Mutex
	collections map[string]map[string]platform.Document
	subs        map[string][]*subscriber
	nextSubID   int

	// WriteErr, when set, fails every Set/Update/Delete. Tests use it to
	// simulate backend write failures.
	WriteErr error
	// ReadErr, when set, fails every Get/List.
	ReadErr error
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]platform.Document),
		subs:        make(map[string][]*subscriber),
	}
}

func docKey(collection, id string) string { return collection + "/" + id }

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (platform.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	col, ok := s.collections[collection]
	if !ok {
		return nil, platform.ErrDocumentMissing
	}
	doc, ok := col[id]
	if !ok {
		return nil, platform.ErrDocumentMissing
	}
	return copyDocument(doc), nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data platform.Document, merge bool) error {
	s.mu.Lock()
	if s.WriteErr != nil {
		err := s.WriteErr
		s.mu.Unlock()
		return err
	}
	col := s.collections[collection]
	if col == nil {
		col = make(map[string]platform.Document)
		s.collections[collection] = col
	}
	existing := col[id]
	if !merge || existing == nil {
		existing = platform.Document{}
	}
	mergeInto(existing, data)
	col[id] = existing
	s.notifyLocked(collection, id)
	s.mu.Unlock()
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields platform.Document) error {
	s.mu.Lock()
	if s.WriteErr != nil {
		err := s.WriteErr
		s.mu.Unlock()
		return err
	}
	col := s.collections[collection]
	doc, ok := col[id]
	if !ok {
		s.mu.Unlock()
		return platform.ErrDocumentMissing
	}
	for path, value := range fields {
		setPath(doc, strings.Split(path, "."), value)
	}
	s.notifyLocked(collection, id)
	s.mu.Unlock()
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if s.WriteErr != nil {
		err := s.WriteErr
		s.mu.Unlock()
		return err
	}
	if col, ok := s.collections[collection]; ok {
		delete(col, id)
	}
	s.notifyLocked(collection, id)
	s.mu.Unlock()
	return nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]platform.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	var out []platform.Snapshot
	for id, doc := range s.collections[collection] {
		out = append(out, platform.Snapshot{ID: id, Data: copyDocument(doc)})
	}
	return out, nil
}

func (s *DocumentStore) Subscribe(ctx context.Context, collection, id string, onChange func(platform.Document, bool), onError func(error)) (func(), error) {
	s.mu.Lock()
	s.nextSubID++
	sub := &subscriber{id: s.nextSubID, onChange: onChange, onError: onError}
	key := docKey(collection, id)
	s.subs[key] = append(s.subs[key], sub)
	doc, exists := s.lookupLocked(collection, id)
	s.mu.Unlock()

	// Initial snapshot, like the real store's listener.
	onChange(doc, exists)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			list := s.subs[key]
			for i, candidate := range list {
				if candidate.id == sub.id {
					s.subs[key] = append(list[:i], list[i+1:]...)
					break
				}
			}
		})
	}
	return unsubscribe, nil
}

// FailSubscription pushes err to every live subscriber of the document and
// drops them, simulating a broken sync channel.
func (s *DocumentStore) FailSubscription(collection, id string, err error) {
	key := docKey(collection, id)
	s.mu.Lock()
	list := s.subs[key]
	s.subs[key] = nil
	s.mu.Unlock()
	for _, sub := range list {
		sub.onError(err)
	}
}

func (s *DocumentStore) lookupLocked(collection, id string) (platform.Document, bool) {
	col, ok := s.collections[collection]
	if !ok {
		return nil, false
	}
	doc, ok := col[id]
	if !ok {
		return nil, false
	}
	return copyDocument(doc), true
}

// notifyLocked snapshots the subscriber list and document under the lock,
// then delivers outside it so callbacks may re-enter the store.
func (s *DocumentStore) notifyLocked(collection, id string) {
	key := docKey(collection, id)
	list := append([]*subscriber(nil), s.subs[key]...)
	doc, exists := s.lookupLocked(collection, id)
	if len(list) == 0 {
		return
	}
	s.mu.Unlock()
	for _, sub := range list {
		sub.onChange(copyDocument(doc), exists)
	}
	s.mu.Lock()
}

func setPath(doc platform.Document, path []string, value any) {
	for len(path) > 1 {
		next, ok := doc[path[0]].(map[string]any)
		if !ok {
			next = map[string]any{}
			doc[path[0]] = next
		}
		doc = next
		path = path[1:]
	}
	doc[path[0]] = resolveValue(doc[path[0]], value)
}

func mergeInto(dst platform.Document, src platform.Document) {
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeInto(existing, nested)
				continue
			}
			fresh := map[string]any{}
			mergeInto(fresh, nested)
			dst[k] = fresh
			continue
		}
		dst[k] = resolveValue(dst[k], v)
	}
}

// resolveValue applies the array-union transform against the current field
// value; plain values pass through.
func resolveValue(current, incoming any) any {
	union, ok := incoming.(platform.ArrayUnionValue)
	if !ok {
		return incoming
	}
	arr, _ := current.([]any)
	for _, candidate := range union.Values {
		present := false
		for _, have := range arr {
			if reflect.DeepEqual(have, candidate) {
				present = true
				break
			}
		}
		if !present {
			arr = append(arr, candidate)
		}
	}
	return arr
}

func copyDocument(doc platform.Document) platform.Document {
	if doc == nil {
		return nil
	}
	out := make(platform.Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}
