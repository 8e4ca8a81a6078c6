package mysql

import (
	"context"
	"time"

	loanDomain "csei-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *LoanRepository) AddGuarantor(ctx context.Context, g *loanDomain.Guarantor) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *LoanRepository) AddReview(ctx context.Context, rv *loanDomain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *LoanRepository) GetByApplicationID(ctx context.Context, applicationID string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).Where("loan_application_id = ?", applicationID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetInFlightByApplicant(ctx context.Context, applicantID string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).
		Where("applicant_id = ? AND status IN ?", applicantID, loanDomain.InFlight).
		Order("submitted_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

// UpdateStatus runs on a row the caller has locked. Zero affected rows only
// means nothing changed, so it is not reported as missing.
func (r *LoanRepository) UpdateStatus(ctx context.Context, applicationID string, status loanDomain.Status, reviewedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Where("loan_application_id = ?", applicationID).
		Updates(map[string]any{"status": status, "reviewed_at": reviewedAt})
	return res.Error
}

func (r *LoanRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loan_applications AS la").
		Select(`la.*,
			COALESCE(m.member_name, '') AS applicant_name,
			COALESCE(m.member_surname, '') AS applicant_surname,
			COALESCE(m.email, '') AS applicant_email,
			COALESCE(m.first_telephone_line, '') AS applicant_phone`).
		Joins("LEFT JOIN members m ON m.member_id = la.applicant_id")
}

func (r *LoanRepository) GetView(ctx context.Context, applicationID string) (*loanDomain.ApplicationView, error) {
	var out loanDomain.ApplicationView
	res := r.views(ctx).Where("la.loan_application_id = ?", applicationID).Take(&out)
	return &out, res.Error
}

// Newest first.
func (r *LoanRepository) ListViews(ctx context.Context) ([]loanDomain.ApplicationView, error) {
	var out []loanDomain.ApplicationView
	err := r.views(ctx).Order("la.submitted_at DESC, la.id DESC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListByApplicant(ctx context.Context, applicantID string) ([]loanDomain.Application, error) {
	var out []loanDomain.Application
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("submitted_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListGuarantors(ctx context.Context, applicationID string) ([]loanDomain.GuarantorView, error) {
	var out []loanDomain.GuarantorView
	err := r.db.WithContext(ctx).
		Table("loan_guarantors AS g").
		Select(`g.guarantor_id,
			COALESCE(m.member_name, '') AS guarantor_name,
			COALESCE(m.member_surname, '') AS guarantor_surname,
			COALESCE(m.email, '') AS guarantor_email,
			g.committed_amount`).
		Joins("LEFT JOIN members m ON m.member_id = g.guarantor_id").
		Where("g.loan_application_id = ?", applicationID).
		Order("g.id").
		Scan(&out).Error
	return out, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context) ([]loanDomain.StatusCount, error) {
	var out []loanDomain.StatusCount
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Scan(&out).Error
	return out, err
}
