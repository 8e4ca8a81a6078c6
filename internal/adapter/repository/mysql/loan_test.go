package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"csei-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestLoan_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	a := makeApplication("LA0001", "M0001", "150000.50", loan.StatusPending, time.Now())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByApplicationID(ctx, "LA0001")
	if err != nil {
		t.Fatalf("GetByApplicationID: %v", err)
	}
	if got.ApplicantID != "M0001" || !got.Amount.Equal(decimal.RequireFromString("150000.50")) {
		t.Errorf("unexpected application: %+v", got)
	}
	if got.ReviewedAt != nil {
		t.Errorf("reviewed_at should be NULL, got %v", got.ReviewedAt)
	}

	if _, err := repo.GetByApplicationIDForUpdate(ctx, "LA0001"); err != nil {
		t.Fatalf("GetByApplicationIDForUpdate: %v", err)
	}
}

func TestLoan_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByApplicationID(ctx, "LA404"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := repo.GetView(ctx, "LA404"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetView: expected ErrRecordNotFound, got %v", err)
	}
	// callers lock the row first; a missing row is a no-op here
	if err := repo.UpdateStatus(ctx, "LA404", loan.StatusApproved, time.Now()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
}

func TestLoan_GetInFlightByApplicant(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mustCreate(t, db, makeApplication("LA0001", "M0001", "100", loan.StatusApproved, now.Add(-3*time.Hour)))
	mustCreate(t, db, makeApplication("LA0002", "M0001", "100", loan.StatusRejected, now.Add(-2*time.Hour)))
	mustCreate(t, db, makeApplication("LA0003", "M0001", "100", loan.StatusUnderReview, now.Add(-1*time.Hour)))
	mustCreate(t, db, makeApplication("LA0004", "M0002", "100", loan.StatusRequiresMoreInfo, now))

	got, err := repo.GetInFlightByApplicant(ctx, "M0001")
	if err != nil {
		t.Fatalf("GetInFlightByApplicant: %v", err)
	}
	if got.ApplicationID != "LA0003" {
		t.Fatalf("in-flight = %s, want LA0003", got.ApplicationID)
	}

	// requires_more_info does not block a new submission
	if _, err := repo.GetInFlightByApplicant(ctx, "M0002"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for M0002, got %v", err)
	}
}

func TestLoan_UpdateStatusGuarantorsAndReviews(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	guarantor := makeMember("M0002")
	mustCreate(t, db, makeMember("M0001"))
	mustCreate(t, db, guarantor)
	mustCreate(t, db, makeApplication("LA0001", "M0001", "500", loan.StatusPending, time.Now()))

	if err := repo.AddGuarantor(ctx, &loan.Guarantor{
		LoanApplicationID: "LA0001",
		GuarantorID:       "M0002",
		CommittedAmount:   decimal.RequireFromString("250"),
	}); err != nil {
		t.Fatalf("AddGuarantor: %v", err)
	}
	reviewedAt := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateStatus(ctx, "LA0001", loan.StatusApproved, reviewedAt); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.AddReview(ctx, &loan.Review{
		LoanApplicationID: "LA0001",
		ReviewerID:        "MADMIN",
		Status:            loan.StatusApproved,
		Comments:          "ok",
		ReviewedAt:        reviewedAt,
	}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}

	got, _ := repo.GetByApplicationID(ctx, "LA0001")
	if got.Status != loan.StatusApproved || got.ReviewedAt == nil || !got.ReviewedAt.Equal(reviewedAt) {
		t.Fatalf("unexpected application after review: %+v", got)
	}

	gs, err := repo.ListGuarantors(ctx, "LA0001")
	if err != nil {
		t.Fatalf("ListGuarantors: %v", err)
	}
	if len(gs) != 1 || gs[0].GuarantorID != "M0002" || gs[0].Email != guarantor.Email {
		t.Fatalf("unexpected guarantors: %+v", gs)
	}
	if !gs[0].CommittedAmount.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("committed amount = %s", gs[0].CommittedAmount)
	}
}

func TestLoan_ViewsJoinApplicant(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	applicant := makeMember("M0001")
	mustCreate(t, db, applicant)
	mustCreate(t, db, makeApplication("LA0001", "M0001", "100", loan.StatusApproved, now.Add(-time.Hour)))
	mustCreate(t, db, makeApplication("LA0002", "M0001", "200", loan.StatusPending, now))
	// applicant row missing: names degrade to empty strings
	mustCreate(t, db, makeApplication("LA0003", "M0404", "300", loan.StatusRejected, now.Add(-2*time.Hour)))

	v, err := repo.GetView(ctx, "LA0001")
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if v.ApplicantName != applicant.Name || v.ApplicantEmail != applicant.Email || v.ApplicantPhone != applicant.FirstTelephoneLine {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.ApplicationID != "LA0001" || !v.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("embedded application not scanned: %+v", v.Application)
	}

	all, err := repo.ListViews(ctx)
	if err != nil {
		t.Fatalf("ListViews: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListViews len = %d, want 3", len(all))
	}
	if all[0].ApplicationID != "LA0002" || all[2].ApplicationID != "LA0003" {
		t.Fatalf("not newest first: %s, %s, %s", all[0].ApplicationID, all[1].ApplicationID, all[2].ApplicationID)
	}
	if all[2].ApplicantName != "" {
		t.Fatalf("orphan applicant name = %q", all[2].ApplicantName)
	}

	mine, err := repo.ListByApplicant(ctx, "M0001")
	if err != nil {
		t.Fatalf("ListByApplicant: %v", err)
	}
	if len(mine) != 2 || mine[0].ApplicationID != "LA0002" {
		t.Fatalf("unexpected member applications: %+v", mine)
	}
}

func TestLoan_CountByStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now()

	mustCreate(t, db, makeApplication("LA0001", "M0001", "100", loan.StatusApproved, now))
	mustCreate(t, db, makeApplication("LA0002", "M0002", "200", loan.StatusApproved, now))
	mustCreate(t, db, makeApplication("LA0003", "M0003", "300", loan.StatusApproved, now))
	mustCreate(t, db, makeApplication("LA0004", "M0004", "9999", loan.StatusRejected, now))
	mustCreate(t, db, makeApplication("LA0005", "M0005", "50", loan.StatusPending, now))

	rows, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	s := loan.NewStats(rows)

	if s.Total != 5 || s.Approved != 3 || s.Rejected != 1 || s.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if !s.ApprovedSum.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("approved sum = %s, want 600", s.ApprovedSum)
	}
	if !s.ApprovedAverage.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("approved average = %s, want 200", s.ApprovedAverage)
	}
}
