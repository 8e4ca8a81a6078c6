package member

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("member not found")

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Table: members
//
// ProspectID is unique so a prospect can never be promoted twice, even if two
// approvals slip past the row lock.
type Member struct {
	ID                   uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MemberID             string          `gorm:"column:member_id;size:32;not null;uniqueIndex:ux_members_member_id" json:"member_id"`
	ProspectID           *string         `gorm:"column:prospect_id;size:36;uniqueIndex:ux_members_prospect_id" json:"-"`
	Name                 string          `gorm:"column:member_name;size:50;not null" json:"member_name"`
	Surname              string          `gorm:"column:member_surname;size:50" json:"member_surname"`
	DateOfBirth          time.Time       `gorm:"column:date_of_birth" json:"date_of_birth"`
	FirstAddressLine     string          `gorm:"column:first_address_line;size:50" json:"first_address_line"`
	SecondAddressLine    string          `gorm:"column:second_address_line;size:50" json:"second_address_line"`
	City                 string          `gorm:"column:city;size:50" json:"city"`
	Country              string          `gorm:"column:country;size:50" json:"country"`
	FirstTelephoneLine   string          `gorm:"column:first_telephone_line;size:50" json:"first_telephone_line"`
	SecondTelephoneLine  string          `gorm:"column:second_telephone_line;size:20" json:"second_telephone_line"`
	Email                string          `gorm:"column:email;size:100" json:"email"`
	TelegramContact      string          `gorm:"column:telegram_contact;size:50" json:"telegram_contact"`
	EmergencyContact     string          `gorm:"column:emergency_contact;size:50" json:"emergency_contact"`
	EmergencyPhonenumber string          `gorm:"column:emergency_phonenumber;size:20" json:"emergency_phonenumber"`
	EmergencyEmail       string          `gorm:"column:emergency_email;size:100" json:"emergency_email"`
	Password             string          `gorm:"column:password;size:100" json:"-"`
	Role                 Role            `gorm:"column:role;size:16;not null;default:'member'" json:"role"`
	LastNotifiedBalance  decimal.Decimal `gorm:"column:last_notified_balance;type:decimal(18,2);not null;default:0" json:"-"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Member) TableName() string { return "members" }
