package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AtmTransactionType discriminates cash transactions.
type AtmTransactionType string

const (
	AtmDeposit  AtmTransactionType = "DEPOSIT"
	AtmWithdraw AtmTransactionType = "WITHDRAW"
)

// AtmTransactionStatus is the settlement state of a cash transaction.
// A transaction is created PENDING and transitions exactly once to
// SUCCEEDED or FAILED; it is never reopened or deleted.
type AtmTransactionStatus string

const (
	AtmPending   AtmTransactionStatus = "PENDING"
	AtmSucceeded AtmTransactionStatus = "SUCCEEDED"
	AtmFailed    AtmTransactionStatus = "FAILED"
)

// Failure reasons recorded on FAILED withdrawals. These are terminal,
// auditable outcomes of settlement, not errors.
const (
	ReasonInsufficientBalance = "Insufficient balance"
	ReasonDailyLimitExceeded  = "Daily withdrawal limit exceeded"
)

// AtmTransaction is a point-of-sale/ATM cash transaction settled
// asynchronously by the settlement engine.
type AtmTransaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      AtmTransactionType
	Amount    decimal.Decimal
	Timestamp time.Time
	Status    AtmTransactionStatus
	// FailureReason is set only when Status is FAILED.
	FailureReason string
}
