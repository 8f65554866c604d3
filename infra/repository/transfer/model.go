package transfer

import (
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer is the GORM model for the transactions table. Transfers are
// written once in their terminal status and never updated.
type Transfer struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey"`
	SourceAccountID uuid.UUID             `gorm:"type:uuid;not null;index"`
	TargetAccountID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal       `gorm:"type:numeric(20,2);not null"`
	Description     string                `gorm:"size:255;not null"`
	Timestamp       time.Time             `gorm:"column:timestamp;not null"`
	Status          domain.TransferStatus `gorm:"size:10;not null"`
}

// TableName implements gorm's Tabler.
func (Transfer) TableName() string { return "transactions" }
