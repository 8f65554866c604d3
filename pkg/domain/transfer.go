package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the terminal state of an account-to-account transfer.
// Transfers settle synchronously at creation time, so there is no pending
// state.
type TransferStatus string

const (
	TransferSucceeded TransferStatus = "SUCCEEDED"
	TransferFailed    TransferStatus = "FAILED"
)

// Transfer is a settled account-to-account money movement. A FAILED
// transfer is persisted as an audit record with no balance changes and,
// unlike ATM failures, carries no reason string.
type Transfer struct {
	ID              uuid.UUID
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
	Description     string
	Timestamp       time.Time
	Status          TransferStatus
}
