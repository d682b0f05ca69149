package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload. Location is the
// opaque URL recorded on the document.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage turns uploaded content into a URL reference.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}
