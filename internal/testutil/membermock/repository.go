package membermock

import (
	"context"

	domain "csei-backend/internal/domain/member"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                    func(ctx context.Context, m *domain.Member) error
	GetByMemberIDFn             func(ctx context.Context, memberID string) (*domain.Member, error)
	GetByMemberIDForUpdateFn    func(ctx context.Context, memberID string) (*domain.Member, error)
	ExistingMemberIDsFn         func(ctx context.Context, ids []string) (map[string]bool, error)
	ListNotifiableFn            func(ctx context.Context) ([]domain.Member, error)
	UpdateLastNotifiedBalanceFn func(ctx context.Context, memberID string, b decimal.Decimal) error
}

func (m *Repo) Create(ctx context.Context, mem *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mem)
	}
	return nil
}

func (m *Repo) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDFn != nil {
		return m.GetByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDForUpdateFn != nil {
		return m.GetByMemberIDForUpdateFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistingMemberIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if m.ExistingMemberIDsFn != nil {
		return m.ExistingMemberIDsFn(ctx, ids)
	}
	return nil, context.Canceled
}

func (m *Repo) ListNotifiable(ctx context.Context) ([]domain.Member, error) {
	if m.ListNotifiableFn != nil {
		return m.ListNotifiableFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateLastNotifiedBalance(ctx context.Context, memberID string, b decimal.Decimal) error {
	if m.UpdateLastNotifiedBalanceFn != nil {
		return m.UpdateLastNotifiedBalanceFn(ctx, memberID, b)
	}
	return nil
}
