// Package ledger exposes read-only member balances and postings.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Table: member_transactions
type Transaction struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MemberID       string          `gorm:"column:member_id;size:32;not null;index:idx_member_transactions_member_date" json:"member_id"`
	Description    string          `gorm:"column:description;size:255" json:"description"`
	OriginalAmount decimal.Decimal `gorm:"column:original_amount;type:decimal(18,2);not null" json:"original_amount"`
	PostingDate    time.Time       `gorm:"column:posting_date;not null;index:idx_member_transactions_member_date" json:"posting_date"`
	DocumentNo     string          `gorm:"column:document_no;size:32" json:"document_no"`
}

func (Transaction) TableName() string { return "member_transactions" }

type Query interface {
	ComputeBalance(ctx context.Context, memberID string) (decimal.Decimal, error)
	// Most recent first; limit <= 0 means no limit.
	ListTransactions(ctx context.Context, memberID string, limit int) ([]Transaction, error)
}
