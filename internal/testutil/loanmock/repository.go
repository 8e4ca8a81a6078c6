package loanmock

import (
	"context"
	"time"

	domain "csei-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads to context.Canceled.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.Application) error
	AddGuarantorFn                func(ctx context.Context, g *domain.Guarantor) error
	AddReviewFn                   func(ctx context.Context, r *domain.Review) error
	GetByApplicationIDFn          func(ctx context.Context, id string) (*domain.Application, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, id string) (*domain.Application, error)
	GetInFlightByApplicantFn      func(ctx context.Context, applicantID string) (*domain.Application, error)
	UpdateStatusFn                func(ctx context.Context, id string, s domain.Status, at time.Time) error
	GetViewFn                     func(ctx context.Context, id string) (*domain.ApplicationView, error)
	ListViewsFn                   func(ctx context.Context) ([]domain.ApplicationView, error)
	ListByApplicantFn             func(ctx context.Context, applicantID string) ([]domain.Application, error)
	ListGuarantorsFn              func(ctx context.Context, id string) ([]domain.GuarantorView, error)
	CountByStatusFn               func(ctx context.Context) ([]domain.StatusCount, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) AddGuarantor(ctx context.Context, g *domain.Guarantor) error {
	if m.AddGuarantorFn != nil {
		return m.AddGuarantorFn(ctx, g)
	}
	return nil
}

func (m *Repo) AddReview(ctx context.Context, r *domain.Review) error {
	if m.AddReviewFn != nil {
		return m.AddReviewFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, id string) (*domain.Application, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, id string) (*domain.Application, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetInFlightByApplicant(ctx context.Context, applicantID string) (*domain.Application, error) {
	if m.GetInFlightByApplicantFn != nil {
		return m.GetInFlightByApplicantFn(ctx, applicantID)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, id string, s domain.Status, at time.Time) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, s, at)
	}
	return nil
}

func (m *Repo) GetView(ctx context.Context, id string) (*domain.ApplicationView, error) {
	if m.GetViewFn != nil {
		return m.GetViewFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListViews(ctx context.Context) ([]domain.ApplicationView, error) {
	if m.ListViewsFn != nil {
		return m.ListViewsFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	if m.ListByApplicantFn != nil {
		return m.ListByApplicantFn(ctx, applicantID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListGuarantors(ctx context.Context, id string) ([]domain.GuarantorView, error) {
	if m.ListGuarantorsFn != nil {
		return m.ListGuarantorsFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, context.Canceled
}
