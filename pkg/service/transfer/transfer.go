// Package transfer implements the account-to-account transfer engine.
// Unlike ATM transactions, transfers validate and settle synchronously at
// creation time; the persisted record is always terminal.
package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/amberbank/bankcore/pkg/eventbus"
	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the transfer engine.
type Service struct {
	uow    repository.UnitOfWork
	ledger *ledger.Service
	locks  *ledger.AccountLocks
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the transfer engine. The lock registry must be the
// same instance the settlement engine uses.
func NewService(
	uow repository.UnitOfWork,
	ledgerSvc *ledger.Service,
	locks *ledger.AccountLocks,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		ledger: ledgerSvc,
		locks:  locks,
		bus:    bus,
		logger: logger.With("service", "transfer"),
		now:    time.Now,
	}
}

// PostTransfer validates and settles a transfer between two IBANs. A
// transfer that fails validation is still persisted with status FAILED as
// an audit record, with no balance changes and no reason string; only
// unresolvable IBANs and non-positive amounts surface as errors.
//
// Validation requires distinct accounts and source balance strictly
// greater than the amount. The absolute limit is deliberately not
// consulted here; that asymmetry with the withdrawal path is preserved
// behavior.
func (s *Service) PostTransfer(
	ctx context.Context,
	sourceIBAN, targetIBAN string,
	amount decimal.Decimal,
	description string,
) (*domain.Transfer, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrAmountMustBePositive, amount)
	}

	var source, target *dto.AccountRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if source, err = accRepo.GetByIBAN(ctx, sourceIBAN); err != nil {
			return fmt.Errorf("resolving source %q: %w", sourceIBAN, err)
		}
		if target, err = accRepo.GetByIBAN(ctx, targetIBAN); err != nil {
			return fmt.Errorf("resolving target %q: %w", targetIBAN, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Both mutation rights are taken before either leg commits; the
	// registry acquires them in a fixed order to avoid deadlocks between
	// opposing transfers.
	s.locks.Lock(source.ID, target.ID)
	defer s.locks.Unlock(source.ID, target.ID)

	tx := &domain.Transfer{
		ID:              uuid.New(),
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Amount:          amount,
		Description:     description,
		Timestamp:       s.now().UTC(),
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		// Re-read under the lock: the resolve above ran outside it.
		src, err := accRepo.Get(ctx, source.ID)
		if err != nil {
			return err
		}

		tx.Status = domain.TransferSucceeded
		if source.ID == target.ID || !src.Balance.GreaterThan(amount) {
			tx.Status = domain.TransferFailed
		}

		if tx.Status == domain.TransferSucceeded {
			if _, err = s.ledger.ApplyDelta(ctx, uow, source.ID, amount.Neg()); err != nil {
				return err
			}
			if _, err = s.ledger.ApplyDelta(ctx, uow, target.ID, amount); err != nil {
				return err
			}
		}

		txRepo, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		return txRepo.Create(ctx, dto.TransferCreate{
			ID:              tx.ID,
			SourceAccountID: tx.SourceAccountID,
			TargetAccountID: tx.TargetAccountID,
			Amount:          tx.Amount,
			Description:     tx.Description,
			Timestamp:       tx.Timestamp,
			Status:          tx.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer posted",
		"transfer_id", tx.ID,
		"source_iban", sourceIBAN,
		"target_iban", targetIBAN,
		"amount", amount,
		"status", tx.Status,
	)
	if err := s.bus.Emit(ctx, domain.TransferPosted{
		TransferID:      tx.ID,
		SourceAccountID: tx.SourceAccountID,
		TargetAccountID: tx.TargetAccountID,
		Amount:          tx.Amount,
		Status:          tx.Status,
	}); err != nil {
		s.logger.Warn("emitting transfer event failed", "error", err)
	}
	return tx, nil
}

// ListTransactionsForAccount returns all transfers where the account is
// source or target, in natural storage order.
func (s *Service) ListTransactionsForAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]dto.TransferRead, error) {
	var out []dto.TransferRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		out, err = txRepo.ListByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
