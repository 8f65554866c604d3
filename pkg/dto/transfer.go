package dto

import (
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferCreate is the payload for persisting a settled transfer record.
// Transfers settle synchronously, so the record is created already in its
// terminal status.
type TransferCreate struct {
	ID              uuid.UUID
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
	Description     string
	Timestamp       time.Time
	Status          domain.TransferStatus
}

// TransferRead is a read-optimized DTO for transfer queries. Source and
// target IBANs are denormalized from the accounts table so the combined
// projection does not need extra lookups.
type TransferRead struct {
	ID              uuid.UUID
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	SourceIBAN      string
	TargetIBAN      string
	Amount          decimal.Decimal
	Description     string
	Timestamp       time.Time
	Status          domain.TransferStatus
}
