package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satish9484/chat-app/config"
	"github.com/satish9484/chat-app/internal/platform/memory"
	"github.com/satish9484/chat-app/internal/selection"
	appErrors "github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

func newCoordinator(blobs *memory.BlobStore, sel *selection.State) *Coordinator {
	cfg := config.Upload{MaxBytes: 1 << 20, KeyPrefix: "ChatImages"}
	return NewCoordinator(blobs, sel, cfg, logger.NewNop())
}

// snapshotReader records the coordinator's percent before every chunk, so the
// test observes the progress sequence without goroutines.
type snapshotReader struct {
	inner    io.Reader
	c        *Coordinator
	percents []int
}

func (r *snapshotReader) Read(p []byte) (int, error) {
	r.percents = append(r.percents, r.c.Snapshot().Percent)
	return r.inner.Read(p)
}

func TestCoordinator_Start(t *testing.T) {
	t.Run("happy path - progress is monotone and lands on done", func(t *testing.T) {
		blobs := memory.NewBlobStore()
		blobs.ChunkBytes = 25
		sel := selection.NewState(logger.NewNop())
		c := newCoordinator(blobs, sel)

		data := bytes.Repeat([]byte("a"), 100)
		reader := &snapshotReader{inner: bytes.NewReader(data), c: c}

		url, err := c.Start(context.Background(), "pic.png", reader, int64(len(data)))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "mem://ChatImages/pic.png"), "url %q", url)
		assert.Equal(t, StateDone, c.State())

		// Mirror cleared once the transfer settles.
		assert.Equal(t, selection.UploadState{}, sel.Upload())

		last := 0
		for _, p := range reader.percents {
			assert.GreaterOrEqual(t, p, last)
			assert.LessOrEqual(t, p, 100)
			last = p
		}
	})

	t.Run("happy path - second transfer after done", func(t *testing.T) {
		blobs := memory.NewBlobStore()
		c := newCoordinator(blobs, nil)

		_, err := c.Start(context.Background(), "one.png", bytes.NewReader([]byte("x")), 1)
		require.NoError(t, err)
		_, err = c.Start(context.Background(), "two.png", bytes.NewReader([]byte("y")), 1)
		require.NoError(t, err)
	})

	t.Run("sad path - rejected while a transfer is in flight", func(t *testing.T) {
		blobs := memory.NewBlobStore()
		c := newCoordinator(blobs, nil)

		data := bytes.Repeat([]byte("a"), 32)
		var once sync.Once
		inner := bytes.NewReader(data)
		reader := readerFunc(func(p []byte) (int, error) {
			once.Do(func() {
				_, err := c.Start(context.Background(), "other.png", bytes.NewReader([]byte("x")), 1)
				assert.ErrorIs(t, err, appErrors.ErrUploadInProgress)
			})
			return inner.Read(p)
		})

		_, err := c.Start(context.Background(), "first.png", reader, int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, StateDone, c.State())
	})

	t.Run("sad path - attachment over the limit", func(t *testing.T) {
		c := NewCoordinator(memory.NewBlobStore(), nil, config.Upload{MaxBytes: 10, KeyPrefix: "ChatImages"}, logger.NewNop())
		_, err := c.Start(context.Background(), "big.png", bytes.NewReader(make([]byte, 11)), 11)
		assert.ErrorIs(t, err, appErrors.ErrAttachmentTooLarge)
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("sad path - nameless or empty attachment", func(t *testing.T) {
		c := newCoordinator(memory.NewBlobStore(), nil)
		_, err := c.Start(context.Background(), "", bytes.NewReader([]byte("x")), 1)
		assert.Equal(t, appErrors.CodeInvalidArgument, appErrors.CodeOf(err))

		_, err = c.Start(context.Background(), "pic.png", nil, 0)
		assert.Equal(t, appErrors.CodeInvalidArgument, appErrors.CodeOf(err))
	})

	t.Run("sad path - transfer aborts midway", func(t *testing.T) {
		blobs := memory.NewBlobStore()
		blobs.ChunkBytes = 20
		blobs.FailAfter = 40
		blobs.FailErr = errors.New("link dropped")
		sel := selection.NewState(logger.NewNop())
		c := newCoordinator(blobs, sel)

		data := bytes.Repeat([]byte("a"), 100)
		_, err := c.Start(context.Background(), "pic.png", bytes.NewReader(data), int64(len(data)))
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeUnavailable, appErrors.CodeOf(err))
		assert.Equal(t, StateFailed, c.State())
		assert.Equal(t, selection.UploadState{}, sel.Upload())

		// Failed is terminal until Reset.
		c.Reset()
		assert.Equal(t, StateIdle, c.State())
		blobs.FailAfter = 0
		_, err = c.Start(context.Background(), "pic.png", bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
	})
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
