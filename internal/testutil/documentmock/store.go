package documentmock

import (
	"context"
	"time"

	"csei-backend/internal/domain/document"
)

var _ document.Store = (*Store)(nil)

// Store is a function-backed document.Store. A nil StoreFn echoes the key,
// a nil TemporaryLinkFn returns context.Canceled.
type Store struct {
	StoreFn         func(ctx context.Context, key string, f document.File) (string, error)
	TemporaryLinkFn func(ctx context.Context, ref string, ttl time.Duration) (string, error)
}

func (s *Store) Store(ctx context.Context, key string, f document.File) (string, error) {
	if s.StoreFn != nil {
		return s.StoreFn(ctx, key, f)
	}
	return key, nil
}

func (s *Store) TemporaryLink(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	if s.TemporaryLinkFn != nil {
		return s.TemporaryLinkFn(ctx, ref, ttl)
	}
	return "", context.Canceled
}
