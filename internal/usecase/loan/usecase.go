package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"csei-backend/internal/domain/document"
	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/notify"
	"csei-backend/internal/domain/uow"
	"csei-backend/internal/infrastructure/observability"
	"csei-backend/pkg/id"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const (
	// presigned links embedded in read responses
	listingLinkTTL = time.Hour
	// link requested explicitly by the owner or an admin
	downloadLinkTTL = 5 * time.Minute
	linkTimeout     = 5 * time.Second

	MaxDocumentSize = 10 << 20
	documentPrefix  = "engagement-letters/"
)

var documentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

type Usecase struct {
	uow      uow.UnitOfWork
	repo     loan.Repository
	docs     document.Store
	ids      id.Generator
	notifier notify.Dispatcher
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repo loan.Repository, docs document.Store, ids id.Generator, n notify.Dispatcher) *Usecase {
	return &Usecase{
		uow:      u,
		repo:     repo,
		docs:     docs,
		ids:      ids,
		notifier: n,
		log:      observability.Logger.With("usecase", "loan"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func validateSubmit(in SubmitInput) error {
	if in.ApplicantID == "" {
		return fmt.Errorf("%w: applicant is required", loan.ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", loan.ErrInvalidInput)
	}
	if in.Duration <= 0 {
		return fmt.Errorf("%w: duration must be greater than 0", loan.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Guarantors))
	for _, g := range in.Guarantors {
		switch {
		case g.GuarantorID == "":
			return fmt.Errorf("%w: guarantor id is required", loan.ErrInvalidGuarantor)
		case g.GuarantorID == in.ApplicantID:
			return fmt.Errorf("%w: applicant cannot guarantee their own loan", loan.ErrInvalidGuarantor)
		case seen[g.GuarantorID]:
			return fmt.Errorf("%w: %s listed twice", loan.ErrInvalidGuarantor, g.GuarantorID)
		case !g.CommittedAmount.IsPositive():
			return fmt.Errorf("%w: committed amount must be greater than 0", loan.ErrInvalidGuarantor)
		}
		seen[g.GuarantorID] = true
	}
	return nil
}

// Submit files a new application. The applicant row is locked for the whole
// transaction so two submissions by the same member serialise and the second
// sees the first as in flight.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (_ *SubmitResult, err error) {
	ctx, span := observability.StartSpan(ctx, "loan.Submit", attribute.String("loan.applicant_id", in.ApplicantID))
	defer func() { observability.EndSpan(span, err) }()

	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	var (
		app       *loan.Application
		applicant member.Member
	)
	err = u.uow.WithinMemberTx(ctx, in.ApplicantID, func(r uow.Repos, m *member.Member) error {
		inFlight, err := r.Loans.GetInFlightByApplicant(ctx, m.MemberID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", loan.ErrPendingApplication, inFlight.ApplicationID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("check in-flight applications: %w", err)
		}

		if len(in.Guarantors) > 0 {
			ids := make([]string, 0, len(in.Guarantors))
			for _, g := range in.Guarantors {
				ids = append(ids, g.GuarantorID)
			}
			existing, err := r.Members.ExistingMemberIDs(ctx, ids)
			if err != nil {
				return fmt.Errorf("look up guarantors: %w", err)
			}
			for _, gid := range ids {
				if !existing[gid] {
					return fmt.Errorf("%w: member %s does not exist", loan.ErrInvalidGuarantor, gid)
				}
			}
		}

		a := &loan.Application{
			ApplicationID:    u.ids.ApplicationID(),
			ApplicantID:      m.MemberID,
			Amount:           in.Amount,
			Duration:         in.Duration,
			EngagementLetter: in.EngagementLetter,
			Status:           loan.StatusPending,
			SubmittedAt:      u.now(),
		}
		if err := r.Loans.Create(ctx, a); err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		for _, g := range in.Guarantors {
			if err := r.Loans.AddGuarantor(ctx, &loan.Guarantor{
				LoanApplicationID: a.ApplicationID,
				GuarantorID:       g.GuarantorID,
				CommittedAmount:   g.CommittedAmount,
			}); err != nil {
				return fmt.Errorf("add guarantor %s: %w", g.GuarantorID, err)
			}
		}
		app, applicant = a, *m
		return nil
	})
	if err != nil {
		observability.Submissions.WithLabelValues("loan", "rejected").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrApplicantNotFound
		}
		return nil, err
	}
	observability.Submissions.WithLabelValues("loan", "accepted").Inc()

	if applicant.Email != "" {
		msg, err := submittedMessage(applicant.Email, applicant.Name, app.ApplicationID, app.Amount, app.Duration)
		if err != nil {
			u.log.ErrorContext(ctx, "compose submission email", "loan_application_id", app.ApplicationID, "error", err)
		} else {
			u.notifier.Dispatch(ctx, msg)
		}
	}
	return &SubmitResult{ApplicationID: app.ApplicationID, Status: app.Status}, nil
}

// Review applies a reviewer decision. Approved and rejected are final.
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (_ *ReviewResult, err error) {
	ctx, span := observability.StartSpan(ctx, "loan.Review",
		attribute.String("loan.application_id", in.ApplicationID),
		attribute.String("loan.status", string(in.Status)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if !in.Status.Reviewable() {
		return nil, loan.ErrInvalidStatus
	}

	err = u.uow.WithinLoanTx(ctx, in.ApplicationID, func(r uow.Repos, a *loan.Application) error {
		if a.Status.Terminal() {
			return loan.ErrAlreadyDecided
		}
		now := u.now()
		if err := r.Loans.UpdateStatus(ctx, a.ApplicationID, in.Status, now); err != nil {
			return fmt.Errorf("update application status: %w", err)
		}
		if in.Comments == "" {
			return nil
		}
		if err := r.Loans.AddReview(ctx, &loan.Review{
			LoanApplicationID: a.ApplicationID,
			ReviewerID:        in.ReviewerID,
			Status:            in.Status,
			Comments:          in.Comments,
			ReviewedAt:        now,
		}); err != nil {
			return fmt.Errorf("add review: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	observability.StatusTransitions.WithLabelValues("loan", string(in.Status)).Inc()

	return &ReviewResult{
		ApplicationID:    in.ApplicationID,
		Status:           in.Status,
		NotificationSent: u.notifyReview(ctx, in),
	}, nil
}

func (u *Usecase) notifyReview(ctx context.Context, in ReviewInput) bool {
	v, err := u.repo.GetView(ctx, in.ApplicationID)
	if err != nil {
		u.log.WarnContext(ctx, "load applicant for review email", "loan_application_id", in.ApplicationID, "error", err)
		return false
	}
	if v.ApplicantEmail == "" {
		return false
	}
	msg, err := reviewedMessage(v.ApplicantEmail, v.ApplicantName, in.ApplicationID, in.Status, in.Comments)
	if err != nil {
		u.log.ErrorContext(ctx, "compose review email", "loan_application_id", in.ApplicationID, "error", err)
		return false
	}
	return u.notifier.Dispatch(ctx, msg)
}

// link presigns ref, falling back to the raw reference on failure.
func (u *Usecase) link(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, linkTimeout)
	defer cancel()
	url, err := u.docs.TemporaryLink(ctx, ref, listingLinkTTL)
	if err != nil {
		u.log.WarnContext(ctx, "presign engagement letter", "ref", ref, "error", err)
		return ref
	}
	return url
}

func (u *Usecase) Get(ctx context.Context, applicationID string) (*ApplicationDetail, error) {
	v, err := u.repo.GetView(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	gs, err := u.repo.ListGuarantors(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list guarantors: %w", err)
	}
	if gs == nil {
		gs = []loan.GuarantorView{}
	}
	return &ApplicationDetail{
		ApplicationView:     *v,
		EngagementLetterURL: u.link(ctx, v.EngagementLetter),
		Guarantors:          gs,
	}, nil
}

// List returns every application with its applicant, newest first.
func (u *Usecase) List(ctx context.Context) ([]loan.ApplicationView, error) {
	vs, err := u.repo.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if vs == nil {
		vs = []loan.ApplicationView{}
	}
	return vs, nil
}

func (u *Usecase) ListForMember(ctx context.Context, memberID string) ([]MemberApplication, error) {
	as, err := u.repo.ListByApplicant(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list member applications: %w", err)
	}
	out := make([]MemberApplication, 0, len(as))
	for _, a := range as {
		out = append(out, MemberApplication{Application: a, EngagementLetterURL: u.link(ctx, a.EngagementLetter)})
	}
	return out, nil
}

func (u *Usecase) Stats(ctx context.Context) (*loan.Stats, error) {
	rows, err := u.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	s := loan.NewStats(rows)
	return &s, nil
}

// EngagementLetterLink hands the owner or an admin a short-lived download link.
func (u *Usecase) EngagementLetterLink(ctx context.Context, applicationID string, p Principal) (*DocumentLink, error) {
	a, err := u.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	if !p.Admin && a.ApplicantID != p.MemberID {
		return nil, loan.ErrForbidden
	}
	if a.EngagementLetter == "" {
		return nil, loan.ErrNoDocument
	}
	ctx, cancel := context.WithTimeout(ctx, linkTimeout)
	defer cancel()
	url, err := u.docs.TemporaryLink(ctx, a.EngagementLetter, downloadLinkTTL)
	if err != nil {
		return nil, fmt.Errorf("presign engagement letter: %w", err)
	}
	return &DocumentLink{URL: url, ExpiresIn: int(downloadLinkTTL.Seconds())}, nil
}

// UploadEngagementLetter stores a PDF or Word document under a fresh key.
func (u *Usecase) UploadEngagementLetter(ctx context.Context, f document.File) (*UploadResult, error) {
	ct, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable content type", loan.ErrInvalidDocument)
	}
	defaultExt, ok := documentTypes[ct]
	if !ok {
		return nil, fmt.Errorf("%w: only PDF and Word documents are allowed", loan.ErrInvalidDocument)
	}
	if f.Size <= 0 || f.Size > MaxDocumentSize {
		return nil, fmt.Errorf("%w: file must be between 1 byte and 10 MB", loan.ErrInvalidDocument)
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	switch ext {
	case ".pdf", ".doc", ".docx":
	default:
		ext = defaultExt
	}
	f.ContentType = ct
	ref, err := u.docs.Store(ctx, documentPrefix+id.NewID32()+ext, f)
	if err != nil {
		return nil, fmt.Errorf("store engagement letter: %w", err)
	}
	return &UploadResult{EngagementLetter: ref, FileName: f.Name, Size: f.Size}, nil
}
