package prospect

import (
	"time"

	"csei-backend/internal/domain/prospect"

	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	ReferrerID           string
	Name                 string
	Surname              string
	DateOfBirth          time.Time
	FirstAddressLine     string
	SecondAddressLine    string
	City                 string
	Country              string
	FirstTelephoneLine   string
	SecondTelephoneLine  string
	Email                string
	EmergencyContact     string
	EmergencyPhonenumber string
	EmergencyEmail       string
	MonthlyCommitment    decimal.Decimal
	SwornStatement       bool
	TelegramContact      string
}

type SubmitResult struct {
	ProspectID string          `json:"prospect_id"`
	Status     prospect.Status `json:"status"`
}

type ReviewInput struct {
	ProspectID string
	Status     prospect.Status
	Comment    string
	ReviewerID string
}

type ReviewResult struct {
	ProspectID       string          `json:"prospect_id"`
	Status           prospect.Status `json:"status"`
	MemberID         string          `json:"member_id,omitempty"`
	NotificationSent bool            `json:"notification_sent"`
}
