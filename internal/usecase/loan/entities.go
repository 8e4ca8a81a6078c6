package loan

import (
	"csei-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type GuarantorInput struct {
	GuarantorID     string
	CommittedAmount decimal.Decimal
}

type SubmitInput struct {
	ApplicantID      string
	Amount           decimal.Decimal
	Duration         int
	EngagementLetter string
	Guarantors       []GuarantorInput
}

type SubmitResult struct {
	ApplicationID string      `json:"loan_application_id"`
	Status        loan.Status `json:"status"`
}

type ReviewInput struct {
	ApplicationID string
	Status        loan.Status
	Comments      string
	ReviewerID    string
}

type ReviewResult struct {
	ApplicationID    string      `json:"loan_application_id"`
	Status           loan.Status `json:"status"`
	NotificationSent bool        `json:"notification_sent"`
}

// ApplicationDetail is the admin view of one application.
type ApplicationDetail struct {
	loan.ApplicationView
	EngagementLetterURL string               `json:"engagement_letter_url"`
	Guarantors          []loan.GuarantorView `json:"guarantors"`
}

type MemberApplication struct {
	loan.Application
	EngagementLetterURL string `json:"engagement_letter_url"`
}

// Principal is the authenticated caller.
type Principal struct {
	MemberID string
	Admin    bool
}

type DocumentLink struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

type UploadResult struct {
	EngagementLetter string `json:"engagement_letter"`
	FileName         string `json:"file_name"`
	Size             int64  `json:"size"`
}
