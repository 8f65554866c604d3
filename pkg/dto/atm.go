package dto

import (
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AtmTransactionCreate is the payload for persisting a new pending ATM
// transaction.
type AtmTransactionCreate struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      domain.AtmTransactionType
	Amount    decimal.Decimal
	Timestamp time.Time
	Status    domain.AtmTransactionStatus
}

// AtmTransactionRead is a read-optimized DTO for ATM transaction queries.
type AtmTransactionRead struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	Type          domain.AtmTransactionType
	Amount        decimal.Decimal
	Timestamp     time.Time
	Status        domain.AtmTransactionStatus
	FailureReason string
}

// AtmTransactionUpdate flips a pending transaction to its terminal status.
// FailureReason is set only for failed withdrawals.
type AtmTransactionUpdate struct {
	Status        domain.AtmTransactionStatus
	FailureReason *string
}
