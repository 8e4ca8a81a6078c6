package prospect

import "context"

type Repository interface {
	Create(ctx context.Context, p *Prospect) error
	GetByID(ctx context.Context, id string) (*Prospect, error)
	// Row lock; only meaningful inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*Prospect, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddReview(ctx context.Context, r *Review) error
}
