package prospectmock

import (
	"context"

	domain "csei-backend/internal/domain/prospect"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, p *domain.Prospect) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Prospect, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Prospect, error)
	UpdateStatusFn     func(ctx context.Context, id string, s domain.Status) error
	AddReviewFn        func(ctx context.Context, r *domain.Review) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Prospect) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Prospect, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Prospect, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, s domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, s)
	}
	return nil
}

func (m *Repo) AddReview(ctx context.Context, r *domain.Review) error {
	if m.AddReviewFn != nil {
		return m.AddReviewFn(ctx, r)
	}
	return nil
}
