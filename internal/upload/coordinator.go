// Package upload drives a single attachment transfer to the blob store and
// reports progress. One transfer at a time: Start while a transfer is in
// flight fails with a typed error instead of relying on callers to disable
// input.
package upload

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/satish9484/chat-app/config"
	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/internal/selection"
	"github.com/satish9484/chat-app/pkg/errors"
	"github.com/satish9484/chat-app/pkg/logger"
)

type State int

const (
	StateIdle State = iota
	StateInProgress
	StateDone
	StateFailed
)

type Coordinator struct {
	blobs     platform.BlobStore
	selection *selection.State
	logger    *logger.Logger
	keyPrefix string
	maxBytes  int64

	mu       sync.Mutex
	state    State
	fileName string
	percent  int
}

func NewCoordinator(blobs platform.BlobStore, sel *selection.State, cfg config.Upload, log *logger.Logger) *Coordinator {
	return &Coordinator{
		blobs:     blobs,
		selection: sel,
		logger:    log,
		keyPrefix: cfg.KeyPrefix,
		maxBytes:  cfg.MaxBytes,
	}
}

// Start uploads file under a collision-resistant key (original name plus a
// random suffix) and returns the durable URL. It blocks until the transfer
// completes or fails; progress is mirrored into the shared selection state
// as it arrives.
func (c *Coordinator) Start(ctx context.Context, fileName string, file io.Reader, size int64) (string, error) {
	if file == nil || fileName == "" {
		return "", errors.InvalidArg("attachment needs a name and content")
	}
	if c.maxBytes > 0 && size > c.maxBytes {
		return "", errors.ErrAttachmentTooLarge
	}

	c.mu.Lock()
	if c.state == StateInProgress {
		c.mu.Unlock()
		return "", errors.ErrUploadInProgress
	}
	c.state = StateInProgress
	c.fileName = fileName
	c.percent = 0
	c.mu.Unlock()
	c.mirror(selection.UploadState{InProgress: true, FileName: fileName})

	key := fmt.Sprintf("%s/%s%s", c.keyPrefix, fileName, uuid.NewString())
	url, err := c.blobs.Upload(ctx, key, file, size, c.onProgress)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.fileName = ""
		c.percent = 0
		c.mu.Unlock()
		c.mirror(selection.UploadState{})
		c.logger.Error("attachment upload failed", "file", fileName, "err", err)
		return "", errors.ErrUploadFailed(err)
	}

	c.mu.Lock()
	c.state = StateDone
	c.percent = 100
	c.mu.Unlock()
	c.mirror(selection.UploadState{})
	return url, nil
}

// Reset returns the coordinator to Idle so a new transfer may start.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.state = StateIdle
		c.fileName = ""
		c.percent = 0
	}
	c.mu.Unlock()
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Snapshot() selection.UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return selection.UploadState{
		InProgress: c.state == StateInProgress,
		FileName:   c.fileName,
		Percent:    c.percent,
	}
}

func (c *Coordinator) onProgress(transferred, total int64) {
	percent := 0
	if total > 0 {
		percent = int(transferred * 100 / total)
	}
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}

	c.mu.Lock()
	// Monotone within one transfer.
	if percent < c.percent {
		percent = c.percent
	}
	c.percent = percent
	fileName := c.fileName
	c.mu.Unlock()

	c.mirror(selection.UploadState{InProgress: true, FileName: fileName, Percent: percent})
}

func (c *Coordinator) mirror(u selection.UploadState) {
	if c.selection != nil {
		c.selection.SetUpload(u)
	}
}
