// Package ledger holds the account ledger primitives: the single code
// path by which an account balance may change, and the per-account locks
// that serialize balance mutation between the settlement and transfer
// engines.
package ledger

import (
	"context"
	"log/slog"

	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the account ledger. It applies signed balance deltas and
// nothing else: limit checks belong to the caller, because the ledger has
// no knowledge of transaction semantics.
type Service struct {
	logger *slog.Logger
}

// New creates a ledger service.
func New(logger *slog.Logger) *Service {
	return &Service{logger: logger.With("service", "ledger")}
}

// ApplyDelta adds delta (negative for withdrawals and outgoing transfer
// legs) to the account's balance and persists the account row, returning
// the new balance. It must be called inside the unit of work that settles
// the surrounding transaction so balance and status commit atomically.
// Returns domain.ErrAccountNotFound if the id does not resolve.
func (s *Service) ApplyDelta(
	ctx context.Context,
	uow repository.UnitOfWork,
	accountID uuid.UUID,
	delta decimal.Decimal,
) (decimal.Decimal, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return decimal.Zero, err
	}
	acct, err := repo.Get(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := acct.Balance.Add(delta)
	if err = repo.UpdateBalance(ctx, accountID, newBalance); err != nil {
		return decimal.Zero, err
	}
	s.logger.Debug("balance updated",
		"account_id", accountID,
		"delta", delta,
		"balance", newBalance,
	)
	return newBalance, nil
}
