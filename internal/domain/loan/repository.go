package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Application) error
	AddGuarantor(ctx context.Context, g *Guarantor) error
	AddReview(ctx context.Context, r *Review) error

	GetByApplicationID(ctx context.Context, applicationID string) (*Application, error)
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*Application, error)
	// Newest application of the applicant in an InFlight status.
	GetInFlightByApplicant(ctx context.Context, applicantID string) (*Application, error)
	UpdateStatus(ctx context.Context, applicationID string, status Status, reviewedAt time.Time) error

	// Read side
	GetView(ctx context.Context, applicationID string) (*ApplicationView, error)
	ListViews(ctx context.Context) ([]ApplicationView, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	ListGuarantors(ctx context.Context, applicationID string) ([]GuarantorView, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
