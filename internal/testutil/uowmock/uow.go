package uowmock

import (
	"context"
	"errors"

	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/prospect"
	"csei-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinProspectTxFn func(ctx context.Context, id string, fn func(r uow.Repos, p *prospect.Prospect) error) error
	WithinMemberTxFn   func(ctx context.Context, id string, fn func(r uow.Repos, m *member.Member) error) error
	WithinLoanTxFn     func(ctx context.Context, id string, fn func(r uow.Repos, a *loan.Application) error) error
}

// Passthrough returns a UoW that runs every callback against repos, loading
// the locked row through the matching ForUpdate method.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinProspectTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *prospect.Prospect) error) error {
			p, err := repos.Prospects.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
		WithinMemberTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *member.Member) error) error {
			m, err := repos.Members.GetByMemberIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, m)
		},
		WithinLoanTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *loan.Application) error) error {
			a, err := repos.Loans.GetByApplicationIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinProspectTx(ctx context.Context, id string, fn func(r uow.Repos, p *prospect.Prospect) error) error {
	if m.WithinProspectTxFn != nil {
		return m.WithinProspectTxFn(ctx, id, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinMemberTx(ctx context.Context, id string, fn func(r uow.Repos, mem *member.Member) error) error {
	if m.WithinMemberTxFn != nil {
		return m.WithinMemberTxFn(ctx, id, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, id string, fn func(r uow.Repos, a *loan.Application) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, id, fn)
	}
	return errUnimplemented
}
