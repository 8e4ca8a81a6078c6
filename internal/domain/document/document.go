// Package document declares the object storage contract for uploaded files.
package document

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrInvalidReference = errors.New("invalid document reference")

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	UploadedBy  string
}

type Store interface {
	// Store persists the file under key and returns its reference.
	Store(ctx context.Context, key string, f File) (string, error)
	// TemporaryLink fails with ErrInvalidReference for a reference it cannot resolve.
	TemporaryLink(ctx context.Context, ref string, ttl time.Duration) (string, error)
}
