package firebase

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/pkg/logger"
)

type BlobStore struct {
	bucket *storage.BucketHandle
	logger *logger.Logger
}

func NewBlobStore(bucket *storage.BucketHandle, log *logger.Logger) *BlobStore {
	return &BlobStore{bucket: bucket, logger: log}
}

func (b *BlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, onProgress platform.ProgressFunc) (string, error) {
	obj := b.bucket.Object(key)
	w := obj.NewWriter(ctx)

	src := &progressReader{r: r, total: size, onProgress: onProgress}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "blobstore.Upload.Copy")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "blobstore.Upload.Close")
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", errors.Wrap(err, "blobstore.Upload.Attrs")
	}
	return attrs.MediaLink, nil
}

// progressReader ticks onProgress per read; io.Copy's chunking gives the
// transfer its progress granularity.
type progressReader struct {
	r           io.Reader
	transferred int64
	total       int64
	onProgress  platform.ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.transferred += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.transferred, p.total)
		}
	}
	return n, err
}
