package uowmock

import (
	"context"
	"errors"
	"testing"

	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/prospect"
	"csei-backend/internal/domain/uow"
	"csei-backend/internal/testutil/loanmock"
	"csei-backend/internal/testutil/membermock"
	"csei-backend/internal/testutil/prospectmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	members := &membermock.Repo{}
	repos := uow.Repos{Loans: loans, Members: members}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != loans || r.Members != members {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_Defaults_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set

	errs := []error{
		m.WithinTx(ctx, func(uow.Repos) error { return nil }),
		m.WithinProspectTx(ctx, "p", func(uow.Repos, *prospect.Prospect) error { return nil }),
		m.WithinMemberTx(ctx, "M", func(uow.Repos, *member.Member) error { return nil }),
		m.WithinLoanTx(ctx, "LA", func(uow.Repos, *loan.Application) error { return nil }),
	}
	for i, err := range errs {
		if !errors.Is(err, errUnimplemented) {
			t.Fatalf("call %d: want errUnimplemented, got %v", i, err)
		}
	}
}

func TestPassthrough_LocksRowThenCallsFn(t *testing.T) {
	ctx := context.Background()
	locked := &prospect.Prospect{ID: "p-7"}
	repos := uow.Repos{
		Prospects: &prospectmock.Repo{
			GetByIDForUpdateFn: func(_ context.Context, id string) (*prospect.Prospect, error) {
				if id != "p-7" {
					t.Fatalf("id mismatch: %s", id)
				}
				return locked, nil
			},
		},
		Members: &membermock.Repo{},
		Loans:   &loanmock.Repo{},
	}
	m := Passthrough(repos)

	var got *prospect.Prospect
	if err := m.WithinProspectTx(ctx, "p-7", func(_ uow.Repos, p *prospect.Prospect) error {
		got = p
		return nil
	}); err != nil {
		t.Fatalf("WithinProspectTx: %v", err)
	}
	if got != locked {
		t.Fatalf("locked prospect not forwarded")
	}

	// lock failure short-circuits
	err := m.WithinMemberTx(ctx, "M-1", func(uow.Repos, *member.Member) error {
		t.Fatalf("callback should not run when the lock read fails")
		return nil
	})
	if err != context.Canceled {
		t.Fatalf("want context.Canceled from default member mock, got %v", err)
	}
}

func TestUoW_Reset(t *testing.T) {
	m := Passthrough(uow.Repos{})
	if m.WithinTxFn == nil || m.WithinLoanTxFn == nil {
		t.Fatalf("Passthrough should set funcs")
	}
	m.Reset()
	if m.WithinTxFn != nil || m.WithinProspectTxFn != nil || m.WithinMemberTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
