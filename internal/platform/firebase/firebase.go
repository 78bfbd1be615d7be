// Package firebase adapts the hosted platform (Firestore, Cloud Storage,
// Identity Toolkit) to the interfaces in internal/platform.
package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/satish9484/chat-app/config"
	"github.com/satish9484/chat-app/internal/platform"
	"github.com/satish9484/chat-app/pkg/logger"
)

// Platform bundles the three service adapters built from one app handle.
type Platform struct {
	Auth  platform.AuthClient
	Admin platform.AuthAdmin
	Docs  platform.DocumentStore
	Blobs platform.BlobStore

	close func() error
}

func NewPlatform(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Platform, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, err
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	st, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	bucket, err := st.DefaultBucket()
	if err != nil {
		return nil, err
	}

	authAdmin, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	return &Platform{
		Auth:  NewAuthClient(cfg.Firebase.APIKey, log),
		Admin: NewAuthAdmin(authAdmin),
		Docs:  NewDocumentStore(fs, log),
		Blobs: NewBlobStore(bucket, log),
		close: fs.Close,
	}, nil
}

func (p *Platform) Close() error {
	if p.close != nil {
		return p.close()
	}
	return nil
}
