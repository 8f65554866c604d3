// Package fixtures provides an in-memory unit of work and repository set
// for service-level tests. The store mirrors the observable semantics of
// the GORM implementations, including not-found translation and
// oldest-first pending ordering.
package fixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory database double. It implements
// repository.UnitOfWork; Do runs the callback against the same store,
// which is atomic enough for tests.
type MemoryStore struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]dto.AccountRead
	atms      []dto.AtmTransactionRead
	transfers []dto.TransferCreate

	ibanSeq int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[uuid.UUID]dto.AccountRead)}
}

// AddAccount seeds an account with the given balance and limits and
// returns its read projection. Amounts are decimal strings; the daily
// limit mirrors the withdraw limit since it is never enforced.
func (s *MemoryStore) AddAccount(balance, absoluteLimit, withdrawLimit string) dto.AccountRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ibanSeq++
	acct := dto.AccountRead{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		IBAN:          fmt.Sprintf("NL91AMBR%010d", s.ibanSeq),
		Balance:       decimal.RequireFromString(balance),
		AbsoluteLimit: decimal.RequireFromString(absoluteLimit),
		DailyLimit:    decimal.RequireFromString(withdrawLimit),
		WithdrawLimit: decimal.RequireFromString(withdrawLimit),
		CreatedAt:     time.Now().UTC(),
	}
	s.accounts[acct.ID] = acct
	return acct
}

// Balance returns the current balance of a seeded account.
func (s *MemoryStore) Balance(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].Balance
}

// AtmTransaction returns a stored ATM transaction by id.
func (s *MemoryStore) AtmTransaction(id uuid.UUID) (dto.AtmTransactionRead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.atms {
		if tx.ID == id {
			return tx, true
		}
	}
	return dto.AtmTransactionRead{}, false
}

// SeedAtmTransaction stores an ATM transaction directly, bypassing the
// engine. Useful for arranging settled history.
func (s *MemoryStore) SeedAtmTransaction(tx dto.AtmTransactionRead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atms = append(s.atms, tx)
}

// SeedTransfer stores a transfer record directly, bypassing the engine.
func (s *MemoryStore) SeedTransfer(t dto.TransferCreate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, t)
}

// Transfers returns all stored transfer records.
func (s *MemoryStore) Transfers() []dto.TransferCreate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.TransferCreate, len(s.transfers))
	copy(out, s.transfers)
	return out
}

// Do implements repository.UnitOfWork.
func (s *MemoryStore) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(s)
}

// AccountRepository implements repository.UnitOfWork.
func (s *MemoryStore) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{s: s}, nil
}

// AtmTransactionRepository implements repository.UnitOfWork.
func (s *MemoryStore) AtmTransactionRepository() (repository.AtmTransactionRepository, error) {
	return &atmRepo{s: s}, nil
}

// TransferRepository implements repository.UnitOfWork.
func (s *MemoryStore) TransferRepository() (repository.TransferRepository, error) {
	return &transferRepo{s: s}, nil
}

// CombinedReader implements repository.UnitOfWork.
func (s *MemoryStore) CombinedReader() (repository.CombinedReader, error) {
	return &combinedReader{s: s}, nil
}

var _ repository.UnitOfWork = (*MemoryStore)(nil)

// --- account repository ---

type accountRepo struct{ s *MemoryStore }

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acct, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &acct, nil
}

func (r *accountRepo) GetByIBAN(_ context.Context, iban string) (*dto.AccountRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, acct := range r.s.accounts {
		if acct.IBAN == iban {
			return &acct, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *accountRepo) UpdateBalance(
	_ context.Context,
	id uuid.UUID,
	balance decimal.Decimal,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acct, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acct.Balance = balance
	r.s.accounts[id] = acct
	return nil
}

var _ repository.AccountRepository = (*accountRepo)(nil)

// --- atm transaction repository ---

type atmRepo struct{ s *MemoryStore }

func (r *atmRepo) Create(_ context.Context, create dto.AtmTransactionCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.atms = append(r.s.atms, dto.AtmTransactionRead{
		ID:        create.ID,
		AccountID: create.AccountID,
		Type:      create.Type,
		Amount:    create.Amount,
		Timestamp: create.Timestamp,
		Status:    create.Status,
	})
	return nil
}

func (r *atmRepo) Get(_ context.Context, id uuid.UUID) (*dto.AtmTransactionRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.atms {
		if r.s.atms[i].ID == id {
			tx := r.s.atms[i]
			return &tx, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *atmRepo) ListPending(_ context.Context) ([]dto.AtmTransactionRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []dto.AtmTransactionRead
	for _, tx := range r.s.atms {
		if tx.Status == domain.AtmPending {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *atmRepo) ListByAccount(
	_ context.Context,
	accountID uuid.UUID,
) ([]dto.AtmTransactionRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []dto.AtmTransactionRead
	for _, tx := range r.s.atms {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *atmRepo) UpdateStatus(
	_ context.Context,
	id uuid.UUID,
	update dto.AtmTransactionUpdate,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.atms {
		if r.s.atms[i].ID == id {
			r.s.atms[i].Status = update.Status
			if update.FailureReason != nil {
				r.s.atms[i].FailureReason = *update.FailureReason
			}
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (r *atmRepo) SumSucceededWithdrawals(
	_ context.Context,
	accountID uuid.UUID,
	from, to time.Time,
) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, tx := range r.s.atms {
		if tx.AccountID == accountID &&
			tx.Type == domain.AtmWithdraw &&
			tx.Status == domain.AtmSucceeded &&
			!tx.Timestamp.Before(from) && tx.Timestamp.Before(to) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

var _ repository.AtmTransactionRepository = (*atmRepo)(nil)

// --- transfer repository ---

type transferRepo struct{ s *MemoryStore }

func (r *transferRepo) Create(_ context.Context, create dto.TransferCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transfers = append(r.s.transfers, create)
	return nil
}

func (r *transferRepo) ListByAccount(
	_ context.Context,
	accountID uuid.UUID,
) ([]dto.TransferRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []dto.TransferRead
	for _, t := range r.s.transfers {
		if t.SourceAccountID != accountID && t.TargetAccountID != accountID {
			continue
		}
		out = append(out, dto.TransferRead{
			ID:              t.ID,
			SourceAccountID: t.SourceAccountID,
			TargetAccountID: t.TargetAccountID,
			SourceIBAN:      r.s.accounts[t.SourceAccountID].IBAN,
			TargetIBAN:      r.s.accounts[t.TargetAccountID].IBAN,
			Amount:          t.Amount,
			Description:     t.Description,
			Timestamp:       t.Timestamp,
			Status:          t.Status,
		})
	}
	return out, nil
}

var _ repository.TransferRepository = (*transferRepo)(nil)

// --- combined reader ---

type combinedReader struct{ s *MemoryStore }

func (r *combinedReader) ListAll(
	_ context.Context,
	limit, offset int,
) ([]dto.CombinedTransactionRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.combinedLocked()
	if offset >= len(all) || limit <= 0 {
		return []dto.CombinedTransactionRead{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *combinedReader) CountAll(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.transfers) + len(r.s.atms), nil
}

var _ repository.CombinedReader = (*combinedReader)(nil)

func (s *MemoryStore) combinedLocked() []dto.CombinedTransactionRead {
	var all []dto.CombinedTransactionRead
	for _, t := range s.transfers {
		all = append(all, dto.CombinedTransactionRead{
			ID:          t.ID,
			Kind:        domain.KindTransfer,
			SourceIBAN:  s.accounts[t.SourceAccountID].IBAN,
			TargetIBAN:  s.accounts[t.TargetAccountID].IBAN,
			Amount:      t.Amount,
			Description: t.Description,
			Timestamp:   t.Timestamp,
			Status:      string(t.Status),
		})
	}
	for _, a := range s.atms {
		rec := dto.CombinedTransactionRead{
			ID:            a.ID,
			Kind:          domain.KindAtm,
			Amount:        a.Amount,
			Description:   string(a.Type),
			Timestamp:     a.Timestamp,
			Status:        string(a.Status),
			FailureReason: a.FailureReason,
		}
		iban := s.accounts[a.AccountID].IBAN
		if a.Type == domain.AtmWithdraw {
			rec.SourceIBAN = iban
		} else {
			rec.TargetIBAN = iban
		}
		all = append(all, rec)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all
}
