package mysql

import (
	"csei-backend/internal/domain/ledger"
	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/member"
	"csei-backend/internal/domain/prospect"

	"gorm.io/gorm"
)

// Models lists every table owned by this service, in dependency order.
func Models() []any {
	return []any{
		&prospect.Prospect{},
		&prospect.Review{},
		&member.Member{},
		&loan.Application{},
		&loan.Guarantor{},
		&loan.Review{},
		&ledger.Transaction{},
	}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
