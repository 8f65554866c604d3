package atm

import (
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AtmTransaction is the GORM model for the atm_transactions table.
// FailureReason is nullable; it is present only on FAILED rows.
type AtmTransaction struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	AccountID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Type          domain.AtmTransactionType   `gorm:"size:10;not null"`
	Amount        decimal.Decimal             `gorm:"type:numeric(20,2);not null"`
	Timestamp     time.Time                   `gorm:"column:timestamp;not null"`
	Status        domain.AtmTransactionStatus `gorm:"size:10;not null;index"`
	FailureReason *string                     `gorm:"size:255"`
}

// TableName implements gorm's Tabler.
func (AtmTransaction) TableName() string { return "atm_transactions" }
