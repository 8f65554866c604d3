// Package repository defines the persistence contracts consumed by the
// service layer. Implementations live in infra/repository and are always
// obtained through a UnitOfWork so that every read and write inside one
// business operation shares a single database transaction.
package repository

import (
	"context"
	"time"

	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository is the contract consumed from account management.
// This core resolves accounts and persists balance changes; it never
// creates or deletes accounts.
type AccountRepository interface {
	// Get resolves an account by id. Returns domain.ErrAccountNotFound
	// if the id does not resolve.
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	// GetByIBAN resolves an account by its unique IBAN. Returns
	// domain.ErrAccountNotFound if the IBAN does not resolve.
	GetByIBAN(ctx context.Context, iban string) (*dto.AccountRead, error)
	// UpdateBalance persists a new balance for the account row.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// AtmTransactionRepository stores point-of-sale/ATM cash transactions.
type AtmTransactionRepository interface {
	Create(ctx context.Context, create dto.AtmTransactionCreate) error
	// Get returns domain.ErrTransactionNotFound if the id does not resolve.
	Get(ctx context.Context, id uuid.UUID) (*dto.AtmTransactionRead, error)
	// ListPending returns every transaction still in PENDING state,
	// oldest first.
	ListPending(ctx context.Context) ([]dto.AtmTransactionRead, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]dto.AtmTransactionRead, error)
	// UpdateStatus flips a transaction to its terminal status.
	UpdateStatus(ctx context.Context, id uuid.UUID, update dto.AtmTransactionUpdate) error
	// SumSucceededWithdrawals returns the total amount of SUCCEEDED
	// withdrawals for the account with a timestamp in [from, to).
	SumSucceededWithdrawals(
		ctx context.Context,
		accountID uuid.UUID,
		from, to time.Time,
	) (decimal.Decimal, error)
}

// TransferRepository stores account-to-account transfer records.
type TransferRepository interface {
	Create(ctx context.Context, create dto.TransferCreate) error
	// ListByAccount returns all transfers where the account is source or
	// target, in natural storage order.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]dto.TransferRead, error)
}

// CombinedReader serves the administrative cross-account view as a
// storage-level union of both transaction tables. Per-account filtered
// queries materialize in the service layer instead, because the filters
// reference projected fields.
type CombinedReader interface {
	// ListAll returns a page of the union of both tables ordered by
	// timestamp descending.
	ListAll(ctx context.Context, limit, offset int) ([]dto.CombinedTransactionRead, error)
	// CountAll returns the union row count of both tables.
	CountAll(ctx context.Context) (int, error)
}
