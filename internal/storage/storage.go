package storage

import (
	"fmt"
	"io"

	cfg "github.com/openvault/filevault/internal/config"
)

// Storage is where non-folder entries keep their bytes. References are
// opaque names generated at ingestion time; nothing in scope ever renames
// or reassigns them.
type Storage interface {
	// Save stores the blob under the given reference
	Save(ref string, r io.Reader) error

	// Open returns a reader for the blob, or ErrBlobNotFound
	Open(ref string) (io.ReadCloser, error)

	// Delete removes the blob (used only to clean up after a failed insert)
	Delete(ref string) error
}

// New selects the storage backend from config.
// Local flat-directory storage is the default; S3 is opt-in.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local", "":
		return NewLocalStorage(c.FolderPath), nil
	case "s3":
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
