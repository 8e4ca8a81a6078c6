package mysql

import (
	"context"

	memberDomain "csei-backend/internal/domain/member"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) GetByMemberID(ctx context.Context, memberID string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&out)
	return &out, res.Error
}

func (r *MemberRepository) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("member_id = ?", memberID).
		First(&out)
	return &out, res.Error
}

func (r *MemberRepository) ExistingMemberIDs(ctx context.Context, memberIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&memberDomain.Member{}).
		Where("member_id IN ?", memberIDs).
		Pluck("member_id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func (r *MemberRepository) ListNotifiable(ctx context.Context) ([]memberDomain.Member, error) {
	var out []memberDomain.Member
	err := r.db.WithContext(ctx).
		Where("email IS NOT NULL AND email <> ''").
		Order("member_id").
		Find(&out).Error
	return out, err
}

func (r *MemberRepository) UpdateLastNotifiedBalance(ctx context.Context, memberID string, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&memberDomain.Member{}).
		Where("member_id = ?", memberID).
		Update("last_notified_balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
