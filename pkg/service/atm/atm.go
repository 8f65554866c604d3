// Package atm implements the ATM settlement engine. Cash transactions are
// created in PENDING state without touching the balance; a recurring
// settlement cycle evaluates every pending record against the account's
// limits and commits it to a terminal status.
package atm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/amberbank/bankcore/pkg/eventbus"
	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the ATM settlement engine.
type Service struct {
	uow    repository.UnitOfWork
	ledger *ledger.Service
	locks  *ledger.AccountLocks
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time

	// settling makes a settlement cycle non-reentrant: a tick that fires
	// while the previous cycle is still draining is skipped.
	settling sync.Mutex
}

// NewService creates the settlement engine. The lock registry must be the
// same instance the transfer engine uses, since both mutate balances.
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
		logger: logger.With("service", "atm"),
		now:    time.Now,
	}
}

// CreateTransaction records a new cash transaction in PENDING state for
// the given account. The balance is not touched; settlement happens on
// the next cycle. A non-positive amount is rejected as a validation
// error and never retried.
func (s *Service) CreateTransaction(
	ctx context.Context,
	accountID uuid.UUID,
	txType domain.AtmTransactionType,
	amount decimal.Decimal,
) (*domain.AtmTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrAmountMustBePositive, amount)
	}
	if txType != domain.AtmDeposit && txType != domain.AtmWithdraw {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrValidation, txType)
	}

	tx := &domain.AtmTransaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Timestamp: s.now().UTC(),
		Status:    domain.AtmPending,
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = accRepo.Get(ctx, accountID); err != nil {
			return err
		}
		atmRepo, err := uow.AtmTransactionRepository()
		if err != nil {
			return err
		}
		return atmRepo.Create(ctx, dto.AtmTransactionCreate{
			ID:        tx.ID,
			AccountID: tx.AccountID,
			Type:      tx.Type,
			Amount:    tx.Amount,
			Timestamp: tx.Timestamp,
			Status:    tx.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("atm transaction created",
		"transaction_id", tx.ID,
		"account_id", accountID,
		"type", txType,
		"amount", amount,
	)
	return tx, nil
}

// CreateTransactionForIBAN resolves the account by IBAN and records a new
// pending cash transaction for it.
func (s *Service) CreateTransactionForIBAN(
	ctx context.Context,
	iban string,
	txType domain.AtmTransactionType,
	amount decimal.Decimal,
) (*domain.AtmTransaction, error) {
	var accountID uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accRepo.GetByIBAN(ctx, iban)
		if err != nil {
			return err
		}
		accountID = acct.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.CreateTransaction(ctx, accountID, txType, amount)
}

// GetTransaction retrieves a cash transaction by id. Returns
// domain.ErrTransactionNotFound if absent.
func (s *Service) GetTransaction(
	ctx context.Context,
	id uuid.UUID,
) (*domain.AtmTransaction, error) {
	var tx *domain.AtmTransaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		atmRepo, err := uow.AtmTransactionRepository()
		if err != nil {
			return err
		}
		read, err := atmRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		tx = readToDomain(read)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// SettlePending evaluates and settles every pending cash transaction.
// Pending records for the same account are settled one at a time in
// timestamp order, because each depends on the balance and daily total
// left behind by the previous one. If a previous cycle is still running
// this call is a no-op.
func (s *Service) SettlePending(ctx context.Context) error {
	if !s.settling.TryLock() {
		s.logger.Info("settlement cycle still running, skipping tick")
		return nil
	}
	defer s.settling.Unlock()

	var pending []dto.AtmTransactionRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		atmRepo, err := uow.AtmTransactionRepository()
		if err != nil {
			return err
		}
		pending, err = atmRepo.ListPending(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("listing pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	s.logger.Info("settlement cycle started", "pending", len(pending))

	// Group per account, preserving the oldest-first order within each
	// group. No ordering is guaranteed across accounts.
	order := make([]uuid.UUID, 0)
	byAccount := make(map[uuid.UUID][]dto.AtmTransactionRead)
	for _, rec := range pending {
		if _, ok := byAccount[rec.AccountID]; !ok {
			order = append(order, rec.AccountID)
		}
		byAccount[rec.AccountID] = append(byAccount[rec.AccountID], rec)
	}

	var errs []error
	for _, accountID := range order {
		s.locks.Lock(accountID)
		for _, rec := range byAccount[accountID] {
			if err := s.settleOne(ctx, rec); err != nil {
				// The record stays PENDING and is retried next cycle.
				s.logger.Error("settlement failed, record left pending",
					"transaction_id", rec.ID,
					"account_id", rec.AccountID,
					"error", err,
				)
				errs = append(errs, err)
			}
		}
		s.locks.Unlock(accountID)
	}
	return errors.Join(errs...)
}

// settleOne commits a single pending record to its terminal status.
// Balance change and status change happen in one database transaction so
// a crash can never leave a mixed state.
func (s *Service) settleOne(ctx context.Context, rec dto.AtmTransactionRead) error {
	var outcome *domain.AtmTransactionSettled
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		atmRepo, err := uow.AtmTransactionRepository()
		if err != nil {
			return err
		}
		fresh, err := atmRepo.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		if fresh.Status != domain.AtmPending {
			// Already settled by an earlier cycle; never re-evaluated.
			return nil
		}
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accRepo.Get(ctx, fresh.AccountID)
		if err != nil {
			return err
		}

		status := domain.AtmSucceeded
		reason := ""
		switch fresh.Type {
		case domain.AtmDeposit:
			// Deposits always succeed; no upper bound is enforced.
			if _, err = s.ledger.ApplyDelta(ctx, uow, acct.ID, fresh.Amount); err != nil {
				return err
			}
		case domain.AtmWithdraw:
			status, reason, err = s.settleWithdrawal(ctx, uow, atmRepo, acct, fresh)
			if err != nil {
				return err
			}
		}

		update := dto.AtmTransactionUpdate{Status: status}
		if reason != "" {
			update.FailureReason = &reason
		}
		if err = atmRepo.UpdateStatus(ctx, fresh.ID, update); err != nil {
			return err
		}
		outcome = &domain.AtmTransactionSettled{
			TransactionID:   fresh.ID,
			AccountID:       fresh.AccountID,
			TransactionType: fresh.Type,
			Amount:          fresh.Amount,
			Status:          status,
			FailureReason:   reason,
		}
		return nil
	})
	if err != nil {
		return err
	}
	if outcome != nil {
		if err := s.bus.Emit(ctx, *outcome); err != nil {
			s.logger.Warn("emitting settlement event failed", "error", err)
		}
	}
	return nil
}

// settleWithdrawal evaluates a pending withdrawal against the overdraft
// floor and the daily withdrawal limit, debiting the balance only when
// both checks pass. A failed check is a business outcome, not an error.
func (s *Service) settleWithdrawal(
	ctx context.Context,
	uow repository.UnitOfWork,
	atmRepo repository.AtmTransactionRepository,
	acct *dto.AccountRead,
	rec *dto.AtmTransactionRead,
) (domain.AtmTransactionStatus, string, error) {
	projected := acct.Balance.Sub(rec.Amount)
	if projected.LessThan(acct.AbsoluteLimit) {
		return domain.AtmFailed, domain.ReasonInsufficientBalance, nil
	}

	from, to := dayBounds(s.now().UTC())
	todayWithdrawn, err := atmRepo.SumSucceededWithdrawals(ctx, acct.ID, from, to)
	if err != nil {
		return "", "", err
	}
	// The record under evaluation is not yet SUCCEEDED, so it is not part
	// of the sum.
	if todayWithdrawn.Add(rec.Amount).GreaterThan(acct.WithdrawLimit) {
		return domain.AtmFailed, domain.ReasonDailyLimitExceeded, nil
	}

	if _, err = s.ledger.ApplyDelta(ctx, uow, acct.ID, rec.Amount.Neg()); err != nil {
		return "", "", err
	}
	return domain.AtmSucceeded, "", nil
}

// dayBounds returns the [start, end) of the calendar day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func readToDomain(read *dto.AtmTransactionRead) *domain.AtmTransaction {
	return &domain.AtmTransaction{
		ID:            read.ID,
		AccountID:     read.AccountID,
		Type:          read.Type,
		Amount:        read.Amount,
		Timestamp:     read.Timestamp,
		Status:        read.Status,
		FailureReason: read.FailureReason,
	}
}
