package prospect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/notify"
	"csei-backend/internal/domain/prospect"
	"csei-backend/internal/domain/uow"
	"csei-backend/internal/infrastructure/observability"
	"csei-backend/internal/usecase/credential"
	"csei-backend/pkg/id"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const memberIDAttempts = 3

var errMemberIDExhausted = errors.New("no unused member id")

type Usecase struct {
	uow      uow.UnitOfWork
	repo     prospect.Repository
	ids      id.Generator
	creds    credential.Issuer
	notifier notify.Dispatcher
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repo prospect.Repository, ids id.Generator, creds credential.Issuer, n notify.Dispatcher) *Usecase {
	return &Usecase{
		uow:      u,
		repo:     repo,
		ids:      ids,
		creds:    creds,
		notifier: n,
		log:      observability.Logger.With("usecase", "prospect"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a new prospect. Intake always starts in pending.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.MonthlyCommitment.IsNegative() {
		return nil, fmt.Errorf("%w: monthly commitment must not be negative", prospect.ErrInvalidInput)
	}
	p := &prospect.Prospect{
		ID:                   u.ids.ProspectID(),
		ReferrerID:           in.ReferrerID,
		Name:                 in.Name,
		Surname:              in.Surname,
		DateOfBirth:          in.DateOfBirth,
		FirstAddressLine:     in.FirstAddressLine,
		SecondAddressLine:    in.SecondAddressLine,
		City:                 in.City,
		Country:              in.Country,
		FirstTelephoneLine:   in.FirstTelephoneLine,
		SecondTelephoneLine:  in.SecondTelephoneLine,
		Email:                in.Email,
		EmergencyContact:     in.EmergencyContact,
		EmergencyPhonenumber: in.EmergencyPhonenumber,
		EmergencyEmail:       in.EmergencyEmail,
		MonthlyCommitment:    in.MonthlyCommitment,
		SwornStatement:       in.SwornStatement,
		Status:               prospect.StatusPending,
		TelegramContact:      in.TelegramContact,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		observability.Submissions.WithLabelValues("prospect", "error").Inc()
		return nil, fmt.Errorf("create prospect: %w", err)
	}
	observability.Submissions.WithLabelValues("prospect", "accepted").Inc()
	return &SubmitResult{ProspectID: p.ID, Status: p.Status}, nil
}

// Review applies a reviewer decision. Approval promotes the prospect to a
// member with fresh credentials in the same transaction as the status write.
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (_ *ReviewResult, err error) {
	ctx, span := observability.StartSpan(ctx, "prospect.Review",
		attribute.String("prospect.id", in.ProspectID),
		attribute.String("prospect.status", string(in.Status)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if !in.Status.Reviewable() {
		return nil, prospect.ErrInvalidStatus
	}

	var (
		reviewed prospect.Prospect
		memberID string
		password string
	)
	err = u.uow.WithinProspectTx(ctx, in.ProspectID, func(r uow.Repos, p *prospect.Prospect) error {
		if p.Status.Terminal() {
			return prospect.ErrAlreadyDecided
		}
		if err := r.Prospects.UpdateStatus(ctx, p.ID, in.Status); err != nil {
			return fmt.Errorf("update prospect status: %w", err)
		}
		if err := r.Prospects.AddReview(ctx, &prospect.Review{
			ProspectID: p.ID,
			ReviewerID: in.ReviewerID,
			Status:     in.Status,
			Comment:    in.Comment,
			ReviewedAt: u.now(),
		}); err != nil {
			return fmt.Errorf("add prospect review: %w", err)
		}
		p.Status = in.Status
		reviewed = *p

		if in.Status != prospect.StatusApproved {
			return nil
		}
		creds, err := u.creds.Issue()
		if err != nil {
			return fmt.Errorf("%w: %w", prospect.ErrProvisioningFailure, err)
		}
		newID, err := u.freshMemberID(ctx, r.Members)
		if err != nil {
			return fmt.Errorf("%w: %w", prospect.ErrProvisioningFailure, err)
		}
		m := memberFromProspect(p, newID, creds.Hash)
		if err := r.Members.Create(ctx, m); err != nil {
			return fmt.Errorf("%w: %w", prospect.ErrProvisioningFailure, err)
		}
		if m.MemberID == "" {
			return prospect.ErrProvisioningFailure
		}
		memberID, password = m.MemberID, creds.Plaintext
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, prospect.ErrNotFound
		}
		return nil, err
	}
	observability.StatusTransitions.WithLabelValues("prospect", string(in.Status)).Inc()

	res := &ReviewResult{ProspectID: reviewed.ID, Status: reviewed.Status, MemberID: memberID}
	res.NotificationSent = u.notify(ctx, &reviewed, in.Comment, memberID, password)
	return res, nil
}

// freshMemberID draws ids until one is unused. Checking first keeps a
// collision from failing the insert, which would abort the transaction on
// Postgres.
func (u *Usecase) freshMemberID(ctx context.Context, members member.Repository) (string, error) {
	for i := 0; i < memberIDAttempts; i++ {
		mid := u.ids.MemberID()
		taken, err := members.ExistingMemberIDs(ctx, []string{mid})
		if err != nil {
			return "", fmt.Errorf("check member id: %w", err)
		}
		if !taken[mid] {
			return mid, nil
		}
		u.log.WarnContext(ctx, "member id collision", "member_id", mid)
	}
	return "", errMemberIDExhausted
}

func (u *Usecase) notify(ctx context.Context, p *prospect.Prospect, comment, memberID, password string) bool {
	if p.Email == "" {
		return false
	}
	msg, err := reviewMessage(p, comment, memberID, password)
	if err != nil {
		u.log.ErrorContext(ctx, "compose prospect email", "prospect_id", p.ID, "error", err)
		return false
	}
	return u.notifier.Dispatch(ctx, msg)
}

func memberFromProspect(p *prospect.Prospect, memberID, hash string) *member.Member {
	prospectID := p.ID
	return &member.Member{
		MemberID:             memberID,
		ProspectID:           &prospectID,
		Name:                 p.Name,
		Surname:              p.Surname,
		DateOfBirth:          p.DateOfBirth,
		FirstAddressLine:     p.FirstAddressLine,
		SecondAddressLine:    p.SecondAddressLine,
		City:                 p.City,
		Country:              p.Country,
		FirstTelephoneLine:   p.FirstTelephoneLine,
		SecondTelephoneLine:  p.SecondTelephoneLine,
		Email:                p.Email,
		TelegramContact:      p.TelegramContact,
		EmergencyContact:     p.EmergencyContact,
		EmergencyPhonenumber: p.EmergencyPhonenumber,
		EmergencyEmail:       p.EmergencyEmail,
		Password:             hash,
		Role:                 member.RoleMember,
	}
}
