// Package domain holds the core entities of the ledger: accounts, ATM
// transactions, transfers, and the events emitted when they settle.
// Entities here are persistence-agnostic; GORM models live in
// infra/repository.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the ledger's view of a bank account. The account lifecycle
// (creation, closing, ownership changes) belongs to account management;
// this core only ever mutates Balance, and only through the ledger service.
type Account struct {
	ID     uuid.UUID
	UserID uuid.UUID
	IBAN   string
	// Balance is a signed decimal. Invariant: Balance >= AbsoluteLimit
	// after any settlement.
	Balance decimal.Decimal
	// AbsoluteLimit is the lowest balance allowed. It may be negative,
	// acting as an overdraft floor.
	AbsoluteLimit decimal.Decimal
	// DailyLimit is carried for interface compatibility with account
	// management but is not enforced by the settlement core.
	DailyLimit decimal.Decimal
	// WithdrawLimit caps the cumulative SUCCEEDED withdrawal amount per
	// calendar day.
	WithdrawLimit decimal.Decimal
	CreatedAt     time.Time
}
