package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
)

// B2Storage stores course assets in a Backblaze B2 bucket.
type B2Storage struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

func NewB2Storage(ctx context.Context, keyID, appKey, bucketName string) (*B2Storage, error) {
	if keyID == "" || appKey == "" || bucketName == "" {
		return nil, errors.New("B2_KEY_ID, B2_APP_KEY and B2_BUCKET_NAME are required")
	}
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2Storage{Client: client, Bucket: bucket}, nil
}

// Upload writes the object and returns its public download URL.
func (s *B2Storage) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	w := s.Bucket.Object(key).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w = w.WithAttrs(&b2.Attrs{ContentType: ct})
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return s.URL(key), nil
}

func (s *B2Storage) Delete(ctx context.Context, key string) error {
	if err := s.Bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *B2Storage) URL(key string) string {
	return s.Bucket.Object(key).URL()
}
