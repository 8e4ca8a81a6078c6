package member

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
	GetByMemberIDForUpdate(ctx context.Context, memberID string) (*Member, error)
	// Only the ids that exist are returned.
	ExistingMemberIDs(ctx context.Context, memberIDs []string) (map[string]bool, error)
	// Members with a non-empty email.
	ListNotifiable(ctx context.Context) ([]Member, error)
	UpdateLastNotifiedBalance(ctx context.Context, memberID string, balance decimal.Decimal) error
}
