package ledgermock

import (
	"context"

	"csei-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

var _ ledger.Query = (*Query)(nil)

type Query struct {
	ComputeBalanceFn   func(ctx context.Context, memberID string) (decimal.Decimal, error)
	ListTransactionsFn func(ctx context.Context, memberID string, limit int) ([]ledger.Transaction, error)
}

func (q *Query) ComputeBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	if q.ComputeBalanceFn != nil {
		return q.ComputeBalanceFn(ctx, memberID)
	}
	return decimal.Zero, context.Canceled
}

func (q *Query) ListTransactions(ctx context.Context, memberID string, limit int) ([]ledger.Transaction, error) {
	if q.ListTransactionsFn != nil {
		return q.ListTransactionsFn(ctx, memberID, limit)
	}
	return nil, nil
}
