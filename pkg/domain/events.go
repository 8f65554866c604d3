package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is the marker interface for domain events emitted by the
// settlement and transfer engines.
type Event interface {
	Type() string
}

// AtmTransactionSettled is emitted after a settlement cycle commits a
// pending ATM transaction to its terminal status.
type AtmTransactionSettled struct {
	TransactionID   uuid.UUID
	AccountID       uuid.UUID
	TransactionType AtmTransactionType
	Amount          decimal.Decimal
	Status          AtmTransactionStatus
	FailureReason   string
}

// Type implements Event.
func (AtmTransactionSettled) Type() string { return "AtmTransactionSettled" }

// TransferPosted is emitted after a transfer record is persisted,
// regardless of outcome.
type TransferPosted struct {
	TransferID      uuid.UUID
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
	Status          TransferStatus
}

// Type implements Event.
func (TransferPosted) Type() string { return "TransferPosted" }
