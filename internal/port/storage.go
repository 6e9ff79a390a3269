package port

import "context"

// UploadInput describes a single object upload.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

// UploadOutput reports where the object landed.
type UploadOutput struct {
	URI  string
	Size int64
}

// ObjectStorage abstracts the object store used for document staging and
// OCR output. Implementations exist for GCS (primary) and S3 (archive).
type ObjectStorage interface {
	Upload(ctx context.Context, in UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	ListByPrefix(ctx context.Context, bucket, prefix string) ([]string, error)
}
