package platform

import (
	"context"
	"io"
)

// ProgressFunc receives chunked transfer progress during an upload.
type ProgressFunc func(bytesTransferred, totalBytes int64)

// BlobStore is the hosted binary storage service.
type BlobStore interface {
	// Upload streams r (size bytes) to key and returns a durable URL for
	// the stored object. onProgress may be nil.
	Upload(ctx context.Context, key string, r io.Reader, size int64, onProgress ProgressFunc) (string, error)
}
