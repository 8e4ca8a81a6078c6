package prospect

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("prospect not found")
	ErrInvalidInput        = errors.New("invalid prospect")
	ErrInvalidStatus       = errors.New("invalid prospect status")
	ErrAlreadyDecided      = errors.New("prospect has already been decided")
	ErrProvisioningFailure = errors.New("member provisioning failed")
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusUnderReview      Status = "under_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusRequiresMoreInfo Status = "requires_more_info"
)

// Reviewable reports whether s may be set through a review.
func (s Status) Reviewable() bool {
	switch s {
	case StatusUnderReview, StatusApproved, StatusRejected, StatusRequiresMoreInfo:
		return true
	}
	return false
}

// Terminal statuses accept no further review.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Table: prospects
type Prospect struct {
	ID                   string          `gorm:"column:id;primaryKey;size:36" json:"id"`
	ReferrerID           string          `gorm:"column:referrer_id;size:50" json:"referrer_id"`
	Name                 string          `gorm:"column:prospect_name;size:50;not null" json:"prospect_name"`
	Surname              string          `gorm:"column:prospect_surname;size:50" json:"prospect_surname"`
	DateOfBirth          time.Time       `gorm:"column:date_of_birth" json:"date_of_birth"`
	FirstAddressLine     string          `gorm:"column:first_address_line;size:50" json:"first_address_line"`
	SecondAddressLine    string          `gorm:"column:second_address_line;size:50" json:"second_address_line"`
	City                 string          `gorm:"column:city;size:50" json:"city"`
	Country              string          `gorm:"column:country;size:50" json:"country"`
	FirstTelephoneLine   string          `gorm:"column:first_telephone_line;size:50" json:"first_telephone_line"`
	SecondTelephoneLine  string          `gorm:"column:second_telephone_line;size:20" json:"second_telephone_line"`
	Email                string          `gorm:"column:email;size:100" json:"email"`
	EmergencyContact     string          `gorm:"column:emergency_contact;size:50" json:"emergency_contact"`
	EmergencyPhonenumber string          `gorm:"column:emergency_phonenumber;size:20" json:"emergency_phonenumber"`
	EmergencyEmail       string          `gorm:"column:emergency_email;size:100" json:"emergency_email"`
	MonthlyCommitment    decimal.Decimal `gorm:"column:monthly_commitment;type:decimal(18,2)" json:"monthly_commitment"`
	SwornStatement       bool            `gorm:"column:sworn_statement" json:"sworn_statement"`
	Status               Status          `gorm:"column:status;size:32;not null;default:'pending';index" json:"status"`
	TelegramContact      string          `gorm:"column:telegram_contact;size:50" json:"telegram_contact"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Prospect) TableName() string { return "prospects" }

// Table: prospect_reviews (append-only)
type Review struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ProspectID string    `gorm:"column:prospect_id;size:36;not null;index"`
	ReviewerID string    `gorm:"column:reviewer_id;size:50;not null"`
	Status     Status    `gorm:"column:status;size:32;not null"`
	Comment    string    `gorm:"column:comment;type:text"`
	ReviewedAt time.Time `gorm:"column:reviewed_at;not null"`
}

func (Review) TableName() string { return "prospect_reviews" }
