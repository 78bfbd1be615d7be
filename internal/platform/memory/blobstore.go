package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/satish9484/chat-app/internal/platform"
)

const defaultChunkBytes = 8 * 1024

type BlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// ChunkBytes controls how often onProgress ticks; zero means the
	// default chunk size.
	ChunkBytes int64
	// FailAfter aborts the transfer with FailErr once at least FailAfter
	// bytes have moved. Zero disables the fault.
	FailAfter int64
	FailErr   error
}

func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string][]byte)}
}

func (b *BlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, onProgress platform.ProgressFunc) (string, error) {
	chunk := b.ChunkBytes
	if chunk <= 0 {
		chunk = defaultChunkBytes
	}

	var buf bytes.Buffer
	var transferred int64
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := io.CopyN(&buf, r, chunk)
		transferred += n
		if n > 0 && onProgress != nil {
			onProgress(transferred, size)
		}
		if b.FailAfter > 0 && transferred >= b.FailAfter {
			return "", b.FailErr
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	b.mu.Lock()
	b.objects[key] = buf.Bytes()
	b.mu.Unlock()
	return "mem://" + key, nil
}

// Object returns the stored bytes for key, for test assertions.
func (b *BlobStore) Object(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	return data, ok
}
