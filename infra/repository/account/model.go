package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the GORM model for the accounts table. Rows are owned by
// account management; this core only ever updates the balance column.
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	IBAN          string          `gorm:"column:iban;size:34;uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	AbsoluteLimit decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	DailyLimit    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	WithdrawLimit decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt     time.Time
}

// TableName implements gorm's Tabler.
func (Account) TableName() string { return "accounts" }
