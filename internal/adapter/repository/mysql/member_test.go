package mysql

import (
	"context"
	"errors"
	"testing"

	"csei-backend/internal/domain/member"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestMember_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	m := makeMember("M0001")
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByMemberID(ctx, "M0001")
	if err != nil {
		t.Fatalf("GetByMemberID: %v", err)
	}
	if got.Email != m.Email || got.Role != member.RoleMember {
		t.Errorf("unexpected member: %+v", got)
	}
	if !got.LastNotifiedBalance.IsZero() {
		t.Errorf("last notified balance = %s, want 0", got.LastNotifiedBalance)
	}

	if _, err := repo.GetByMemberIDForUpdate(ctx, "M0001"); err != nil {
		t.Fatalf("GetByMemberIDForUpdate: %v", err)
	}
	if _, err := repo.GetByMemberIDForUpdate(ctx, "M9999"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMember_UniqueMemberAndProspect(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	pid := "p-1"
	a := makeMember("M0001")
	a.ProspectID = &pid
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dupMember := makeMember("M0001")
	if err := repo.Create(ctx, dupMember); err == nil {
		t.Fatal("expected unique violation on member_id")
	}

	dupProspect := makeMember("M0002")
	dupProspect.ProspectID = &pid
	if err := repo.Create(ctx, dupProspect); err == nil {
		t.Fatal("expected unique violation on prospect_id")
	}

	// NULL prospect ids do not collide.
	if err := repo.Create(ctx, makeMember("M0003")); err != nil {
		t.Fatalf("Create M0003: %v", err)
	}
	if err := repo.Create(ctx, makeMember("M0004")); err != nil {
		t.Fatalf("Create M0004: %v", err)
	}
}

func TestMember_ExistingMemberIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	mustCreate(t, db, makeMember("M0001"))
	mustCreate(t, db, makeMember("M0002"))

	got, err := repo.ExistingMemberIDs(ctx, []string{"M0001", "M0002", "M0404"})
	if err != nil {
		t.Fatalf("ExistingMemberIDs: %v", err)
	}
	if !got["M0001"] || !got["M0002"] || got["M0404"] {
		t.Fatalf("unexpected result: %v", got)
	}

	empty, err := repo.ExistingMemberIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty input: got %v, %v", empty, err)
	}
}

func TestMember_ListNotifiableAndUpdateBalance(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	withMail := makeMember("M0001")
	noMail := makeMember("M0002")
	noMail.Email = ""
	mustCreate(t, db, withMail)
	mustCreate(t, db, noMail)

	list, err := repo.ListNotifiable(ctx)
	if err != nil {
		t.Fatalf("ListNotifiable: %v", err)
	}
	if len(list) != 1 || list[0].MemberID != "M0001" {
		t.Fatalf("unexpected notifiable members: %+v", list)
	}

	if err := repo.UpdateLastNotifiedBalance(ctx, "M0001", decimal.RequireFromString("1500.25")); err != nil {
		t.Fatalf("UpdateLastNotifiedBalance: %v", err)
	}
	got, _ := repo.GetByMemberID(ctx, "M0001")
	if !got.LastNotifiedBalance.Equal(decimal.RequireFromString("1500.25")) {
		t.Fatalf("balance = %s, want 1500.25", got.LastNotifiedBalance)
	}

	if err := repo.UpdateLastNotifiedBalance(ctx, "M0404", decimal.Zero); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
