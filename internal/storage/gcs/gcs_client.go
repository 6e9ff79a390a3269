// Package gcs implements object storage against Google Cloud Storage. It is
// the primary backend: uploaded faxes and Vision OCR artifacts both live in
// a GCS bucket so detection can address them by gs:// URI.
package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"faxfhir/internal/config"
	"faxfhir/internal/domain"
	"faxfhir/internal/port"
)

type gcsClient struct {
	client *storage.Client
}

// NewClient creates a GCS-backed ObjectStorage implementation. When cfg
// names a credentials file it is used, otherwise application default
// credentials apply.
func NewClient(ctx context.Context, cfg *config.GCSConfig) (port.ObjectStorage, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	return &gcsClient{client: client}, nil
}

func (c *gcsClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	w := c.client.Bucket(input.Bucket).Object(input.Key).NewWriter(ctx)
	w.ContentType = input.ContentType

	if _, err := io.Copy(w, bytes.NewReader(input.Body)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("gcs upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gcs upload close: %w", err)
	}

	return &port.UploadOutput{
		URI:  fmt.Sprintf("gs://%s/%s", input.Bucket, input.Key),
		Size: int64(len(input.Body)),
	}, nil
}

func (c *gcsClient) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := c.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("gcs download: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs download read: %w", err)
	}
	return data, nil
}

func (c *gcsClient) Delete(ctx context.Context, bucket, key string) error {
	err := c.client.Bucket(bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete: %w", err)
	}
	return nil
}

func (c *gcsClient) ListByPrefix(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := c.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list: %w", err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}
