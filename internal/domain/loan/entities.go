package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("loan application not found")
	ErrApplicantNotFound  = errors.New("applicant not found")
	ErrPendingApplication = errors.New("applicant already has an application in progress")
	ErrInvalidInput       = errors.New("invalid loan application")
	ErrInvalidStatus      = errors.New("invalid loan application status")
	ErrInvalidGuarantor   = errors.New("invalid guarantor")
	ErrAlreadyDecided     = errors.New("loan application has already been decided")
	ErrForbidden          = errors.New("not allowed to access this application")
	ErrNoDocument         = errors.New("no engagement letter attached")
	ErrInvalidDocument    = errors.New("invalid engagement letter")
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusUnderReview      Status = "under_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusRequiresMoreInfo Status = "requires_more_info"
)

// InFlight statuses block another submission by the same applicant.
var InFlight = []Status{StatusPending, StatusUnderReview}

func (s Status) Reviewable() bool {
	switch s {
	case StatusUnderReview, StatusApproved, StatusRejected, StatusRequiresMoreInfo:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Table: loan_applications
type Application struct {
	ID               uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApplicationID    string          `gorm:"column:loan_application_id;size:40;not null;uniqueIndex:ux_loan_applications_public_id" json:"loan_application_id"`
	ApplicantID      string          `gorm:"column:applicant_id;size:32;not null;index:idx_loan_applications_applicant_status" json:"applicant_id"`
	Amount           decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Duration         int             `gorm:"column:duration;not null" json:"duration"`
	EngagementLetter string          `gorm:"column:engagement_letter;type:text" json:"engagement_letter"`
	Status           Status          `gorm:"column:status;size:32;not null;default:'pending';index:idx_loan_applications_applicant_status" json:"status"`
	SubmittedAt      time.Time       `gorm:"column:submitted_at;not null" json:"submitted_at"`
	ReviewedAt       *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at"`
}

func (Application) TableName() string { return "loan_applications" }

// Table: loan_guarantors
type Guarantor struct {
	ID                uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanApplicationID string          `gorm:"column:loan_application_id;size:40;not null;index" json:"loan_application_id"`
	GuarantorID       string          `gorm:"column:guarantor_id;size:32;not null;index" json:"guarantor_id"`
	CommittedAmount   decimal.Decimal `gorm:"column:committed_amount;type:decimal(18,2);not null" json:"committed_amount"`
}

func (Guarantor) TableName() string { return "loan_guarantors" }

// Table: loan_reviews
type Review struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	LoanApplicationID string    `gorm:"column:loan_application_id;size:40;not null;index"`
	ReviewerID        string    `gorm:"column:reviewer_id;size:32;not null"`
	Status            Status    `gorm:"column:status;size:32;not null"`
	Comments          string    `gorm:"column:comments;type:text"`
	ReviewedAt        time.Time `gorm:"column:reviewed_at;not null"`
}

func (Review) TableName() string { return "loan_reviews" }

// ApplicationView is an application joined with its applicant.
type ApplicationView struct {
	Application
	ApplicantName    string `gorm:"column:applicant_name" json:"applicant_name"`
	ApplicantSurname string `gorm:"column:applicant_surname" json:"applicant_surname"`
	ApplicantEmail   string `gorm:"column:applicant_email" json:"applicant_email"`
	ApplicantPhone   string `gorm:"column:applicant_phone" json:"applicant_phone"`
}

// GuarantorView is a guarantor joined with its member record.
type GuarantorView struct {
	GuarantorID     string          `gorm:"column:guarantor_id" json:"guarantor_id"`
	Name            string          `gorm:"column:guarantor_name" json:"guarantor_name"`
	Surname         string          `gorm:"column:guarantor_surname" json:"guarantor_surname"`
	Email           string          `gorm:"column:guarantor_email" json:"guarantor_email"`
	CommittedAmount decimal.Decimal `gorm:"column:committed_amount" json:"committed_amount"`
}

type StatusCount struct {
	Status Status          `gorm:"column:status"`
	Count  int64           `gorm:"column:count"`
	Total  decimal.Decimal `gorm:"column:total"`
}

type Stats struct {
	Total            int64           `json:"total_applications"`
	Pending          int64           `json:"pending"`
	UnderReview      int64           `json:"under_review"`
	Approved         int64           `json:"approved"`
	Rejected         int64           `json:"rejected"`
	RequiresMoreInfo int64           `json:"requires_more_info"`
	ApprovedSum      decimal.Decimal `json:"total_approved_amount"`
	ApprovedAverage  decimal.Decimal `json:"average_approved_amount"`
}

// NewStats folds per-status rows; the average covers approved rows only and
// is zero when there are none.
func NewStats(rows []StatusCount) Stats {
	var s Stats
	for _, r := range rows {
		s.Total += r.Count
		switch r.Status {
		case StatusPending:
			s.Pending = r.Count
		case StatusUnderReview:
			s.UnderReview = r.Count
		case StatusApproved:
			s.Approved = r.Count
			s.ApprovedSum = r.Total
		case StatusRejected:
			s.Rejected = r.Count
		case StatusRequiresMoreInfo:
			s.RequiresMoreInfo = r.Count
		}
	}
	if s.Approved > 0 {
		s.ApprovedAverage = s.ApprovedSum.Div(decimal.NewFromInt(s.Approved)).Round(2)
	}
	return s
}
