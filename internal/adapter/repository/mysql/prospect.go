package mysql

import (
	"context"

	prospectDomain "csei-backend/internal/domain/prospect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProspectRepository struct{ db *gorm.DB }

func NewProspectRepository(db *gorm.DB) *ProspectRepository { return &ProspectRepository{db: db} }

func (r *ProspectRepository) Create(ctx context.Context, p *prospectDomain.Prospect) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProspectRepository) GetByID(ctx context.Context, id string) (*prospectDomain.Prospect, error) {
	var out prospectDomain.Prospect
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// SQLite ignores the locking clause; MySQL and Postgres take a row lock.
func (r *ProspectRepository) GetByIDForUpdate(ctx context.Context, id string) (*prospectDomain.Prospect, error) {
	var out prospectDomain.Prospect
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

// UpdateStatus runs on a row the caller has locked. Zero affected rows only
// means nothing changed, so it is not reported as missing.
func (r *ProspectRepository) UpdateStatus(ctx context.Context, id string, status prospectDomain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&prospectDomain.Prospect{}).
		Where("id = ?", id).
		Update("status", status)
	return res.Error
}

func (r *ProspectRepository) AddReview(ctx context.Context, rv *prospectDomain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}
