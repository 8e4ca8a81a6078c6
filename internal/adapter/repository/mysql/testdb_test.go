package mysql

import (
	"testing"
	"time"

	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/prospect"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
// A single connection keeps every session on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

var faker = gofakeit.New(42)

func makeProspect(id string) *prospect.Prospect {
	return &prospect.Prospect{
		ID:                   id,
		ReferrerID:           "M0000001",
		Name:                 faker.FirstName(),
		Surname:              faker.LastName(),
		DateOfBirth:          time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		FirstAddressLine:     faker.Street(),
		City:                 faker.City(),
		Country:              faker.Country(),
		FirstTelephoneLine:   faker.Phone(),
		Email:                faker.Email(),
		EmergencyContact:     faker.Name(),
		EmergencyPhonenumber: faker.Phone(),
		EmergencyEmail:       faker.Email(),
		MonthlyCommitment:    decimal.RequireFromString("25000"),
		SwornStatement:       true,
		Status:               prospect.StatusPending,
		TelegramContact:      "@" + faker.Username(),
	}
}

func makeMember(memberID string) *member.Member {
	return &member.Member{
		MemberID:           memberID,
		Name:               faker.FirstName(),
		Surname:            faker.LastName(),
		Email:              faker.Email(),
		FirstTelephoneLine: faker.Phone(),
		Role:               member.RoleMember,
	}
}

func makeApplication(appID, applicant string, amount string, status loan.Status, at time.Time) *loan.Application {
	return &loan.Application{
		ApplicationID:    appID,
		ApplicantID:      applicant,
		Amount:           decimal.RequireFromString(amount),
		Duration:         12,
		EngagementLetter: "engagement-letters/" + appID + ".pdf",
		Status:           status,
		SubmittedAt:      at.UTC(),
	}
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}
