package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	cfg "github.com/bolsillo/bolsillo-backend/internal/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ObjectStore reads and writes whole objects in one bucket.
// This interface enables mocking of the GCS client in tests.
type ObjectStore interface {
	// ReadObject returns the object bytes or storage.ErrObjectNotExist
	ReadObject(ctx context.Context, name string) ([]byte, error)
	// WriteObject replaces the object
	WriteObject(ctx context.Context, name, contentType string, data []byte) error
}

// GCSKVStore keeps each slot as one JSON object under a key prefix
type GCSKVStore struct {
	objects ObjectStore
	prefix  string
	closer  io.Closer
}

// NewGCSKVStore creates a GCS backed slot store. Without a credentials file
// Application Default Credentials are used.
func NewGCSKVStore(ctx context.Context, gcsCfg cfg.GCSConfig) (*GCSKVStore, error) {
	var opts []option.ClientOption
	if gcsCfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(gcsCfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	store := NewGCSKVStoreWithObjects(&bucketObjects{bucket: client.Bucket(gcsCfg.Bucket)}, gcsCfg.Prefix)
	store.closer = client

	log.Info().Str("bucket", gcsCfg.Bucket).Str("prefix", gcsCfg.Prefix).Msg("GCS slot store ready")
	return store, nil
}

// NewGCSKVStoreWithObjects wraps an existing ObjectStore
func NewGCSKVStoreWithObjects(objects ObjectStore, prefix string) *GCSKVStore {
	return &GCSKVStore{objects: objects, prefix: prefix}
}

func (s *GCSKVStore) objectName(key string) string {
	return s.prefix + key + ".json"
}

// Get reads the slot object; a missing object is reported as not found
func (s *GCSKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.objects.ReadObject(ctx, s.objectName(key))
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read GCS object %q: %w", key, err)
	}
	return data, true, nil
}

// Set overwrites the slot object
func (s *GCSKVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.objects.WriteObject(ctx, s.objectName(key), "application/json", value); err != nil {
		return fmt.Errorf("write GCS object %q: %w", key, err)
	}
	return nil
}

func (s *GCSKVStore) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// bucketObjects is the ObjectStore backed by a real bucket handle
type bucketObjects struct {
	bucket *storage.BucketHandle
}

func (b *bucketObjects) ReadObject(ctx context.Context, name string) ([]byte, error) {
	r, err := b.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

func (b *bucketObjects) WriteObject(ctx context.Context, name, contentType string, data []byte) error {
	w := b.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy data to GCS writer: %w", err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}
