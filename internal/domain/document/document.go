package document

import (
	"context"
	"io"
	"time"

	"github.com/ffe/backend/internal/domain/shared"
)

// ErrUnsupportedType is returned for uploads of a content type that is not accepted
var ErrUnsupportedType = shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "File type is not accepted")

// ErrTooLarge is returned for uploads over MaxSize
var ErrTooLarge = shared.NewDomainError("FILE_TOO_LARGE", "File is too large")

// MaxSize is the largest accepted upload in bytes
const MaxSize = 20 * 1024 * 1024

var acceptedTypes = map[string]bool{}

func init() {
	for _, t := range []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"image/jpeg",
		"image/png",
		"text/plain",
	} {
		acceptedTypes[t] = true
	}
}

// Document describes a stored file
type Document struct {
	Key          string    `json:"key"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Accept checks an upload's content type and size
func Accept(contentType string, size int64) error {
	if !acceptedTypes[contentType] {
		return ErrUnsupportedType.WithMessage("File type " + contentType + " is not accepted")
	}
	if size > MaxSize {
		return ErrTooLarge
	}
	return nil
}

// Store keeps uploaded files
type Store interface {
	Put(ctx context.Context, key, filename, contentType string, body io.Reader, size int64) (*Document, error)
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]Document, error)
	Delete(ctx context.Context, key string) error
}
