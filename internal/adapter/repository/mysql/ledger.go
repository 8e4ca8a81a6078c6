package mysql

import (
	"context"

	"csei-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository answers balance queries from member_transactions.
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) ComputeBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var row struct {
		Balance decimal.Decimal `gorm:"column:balance"`
	}
	err := r.db.WithContext(ctx).
		Model(&ledger.Transaction{}).
		Select("COALESCE(SUM(original_amount), 0) AS balance").
		Where("member_id = ?", memberID).
		Scan(&row).Error
	return row.Balance, err
}

func (r *LedgerRepository) ListTransactions(ctx context.Context, memberID string, limit int) ([]ledger.Transaction, error) {
	q := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("posting_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []ledger.Transaction
	err := q.Find(&out).Error
	return out, err
}
