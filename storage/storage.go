// Package storage keeps uploaded resume blobs. Blob ids are opaque to
// callers; each backend maps them to its own keys.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusjobs/jobboard-api/config"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// BlobStore stores and retrieves blobs by id.
type BlobStore interface {
	Put(ctx context.Context, id string, data []byte, contentType string) error
	Get(ctx context.Context, id string) ([]byte, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

const (
	DriverLocal  = "local"
	DriverSpaces = "spaces"
)

// New builds the blob store selected by STORAGE_DRIVER.
func New(env *config.EnvironmentVariable) (BlobStore, error) {
	switch env.STORAGE_DRIVER {
	case "", DriverLocal:
		return NewLocalStore(env.UPLOAD_DIR)
	case DriverSpaces:
		return NewSpacesStore(SpacesConfig{
			AccessKey: env.DO_SPACES_KEY,
			SecretKey: env.DO_SPACES_SECRET,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", env.STORAGE_DRIVER)
	}
}
