package uow

import (
	"context"

	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/prospect"
)

// Repos are bound to the surrounding transaction.
type Repos struct {
	Prospects prospect.Repository
	Members   member.Repository
	Loans     loan.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the prospect row first, then pass it in
	WithinProspectTx(ctx context.Context, prospectID string, fn func(r Repos, p *prospect.Prospect) error) error
	// lock the member row first; serialises submissions by one applicant
	WithinMemberTx(ctx context.Context, memberID string, fn func(r Repos, m *member.Member) error) error
	// lock the loan application row first
	WithinLoanTx(ctx context.Context, applicationID string, fn func(r Repos, a *loan.Application) error) error
}
