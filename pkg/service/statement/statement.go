// Package statement implements the combined transaction view: a unified,
// filterable, paginated projection over ATM transactions and transfers.
package statement

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const filterDateLayout = "2006-01-02"

// Service is the combined transaction view.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates the combined view service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "statement")}
}

// GetFiltered returns one page of the combined projection for a single
// account. Both transaction kinds are materialized in memory before
// filtering, because the filters reference projected fields: which side
// of an ATM transaction carries the IBAN depends on its type. A malformed
// filter date fails the whole query.
func (s *Service) GetFiltered(
	ctx context.Context,
	accountID uuid.UUID,
	filter dto.CombinedFilter,
	page, pageSize int,
) (*dto.Page[dto.CombinedTransactionRead], error) {
	pred, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	var records []dto.CombinedTransactionRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accRepo.Get(ctx, accountID)
		if err != nil {
			return err
		}
		txRepo, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		transfers, err := txRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		atmRepo, err := uow.AtmTransactionRepository()
		if err != nil {
			return err
		}
		atms, err := atmRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}

		records = make([]dto.CombinedTransactionRead, 0, len(transfers)+len(atms))
		for _, t := range transfers {
			records = append(records, projectTransfer(t))
		}
		for _, a := range atms {
			records = append(records, projectAtm(a, acct.IBAN))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	filtered := records[:0:0]
	for _, rec := range records {
		if pred.matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	return paginate(filtered, page, pageSize), nil
}

// GetAllCombined returns one page of the administrative, unfiltered,
// cross-account view. No per-record business filtering is needed, so this
// path is served as a native storage-level union ordered by timestamp
// descending.
func (s *Service) GetAllCombined(
	ctx context.Context,
	page, pageSize int,
) (*dto.Page[dto.CombinedTransactionRead], error) {
	if page < 0 {
		page = 0
	}
	if pageSize < 0 {
		pageSize = 0
	}
	result := &dto.Page[dto.CombinedTransactionRead]{
		Content: []dto.CombinedTransactionRead{},
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		combined, err := uow.CombinedReader()
		if err != nil {
			return err
		}
		if result.TotalCount, err = combined.CountAll(ctx); err != nil {
			return err
		}
		if pageSize == 0 {
			return nil
		}
		result.Content, err = combined.ListAll(ctx, pageSize, page*pageSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func projectTransfer(t dto.TransferRead) dto.CombinedTransactionRead {
	return dto.CombinedTransactionRead{
		ID:          t.ID,
		Kind:        domain.KindTransfer,
		SourceIBAN:  t.SourceIBAN,
		TargetIBAN:  t.TargetIBAN,
		Amount:      t.Amount,
		Description: t.Description,
		Timestamp:   t.Timestamp,
		Status:      string(t.Status),
	}
}

// projectAtm maps a cash transaction into the combined shape. Money
// leaving the account sets the source IBAN, money entering sets the
// target IBAN; the other side stays empty. The description defaults to
// the transaction type name.
func projectAtm(a dto.AtmTransactionRead, iban string) dto.CombinedTransactionRead {
	rec := dto.CombinedTransactionRead{
		ID:            a.ID,
		Kind:          domain.KindAtm,
		Amount:        a.Amount,
		Description:   string(a.Type),
		Timestamp:     a.Timestamp,
		Status:        string(a.Status),
		FailureReason: a.FailureReason,
	}
	switch a.Type {
	case domain.AtmWithdraw:
		rec.SourceIBAN = iban
	case domain.AtmDeposit:
		rec.TargetIBAN = iban
	}
	return rec
}

// predicate is a compiled CombinedFilter. All clauses are conjunctive.
type predicate struct {
	start, end  *time.Time
	amount      *decimal.Decimal
	comparison  dto.AmountComparison
	sourceIBAN  string
	targetIBAN  string
	description string
}

func compileFilter(f dto.CombinedFilter) (*predicate, error) {
	p := &predicate{
		sourceIBAN:  f.SourceIBAN,
		targetIBAN:  f.TargetIBAN,
		description: strings.ToLower(f.Description),
	}
	if f.StartDate != "" {
		t, err := time.Parse(filterDateLayout, f.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start date %q", domain.ErrInvalidFilterDate, f.StartDate)
		}
		p.start = &t
	}
	if f.EndDate != "" {
		t, err := time.Parse(filterDateLayout, f.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end date %q", domain.ErrInvalidFilterDate, f.EndDate)
		}
		p.end = &t
	}
	// Amount filtering needs both the value and the operator; absence of
	// either disables it.
	if f.Amount != nil && f.Comparison != "" {
		switch f.Comparison {
		case dto.CompareLessThan, dto.CompareGreaterThan, dto.CompareEqual:
			p.amount = f.Amount
			p.comparison = f.Comparison
		default:
			return nil, fmt.Errorf(
				"%w: unknown amount comparison %q", domain.ErrValidation, f.Comparison,
			)
		}
	}
	return p, nil
}

func (p *predicate) matches(rec dto.CombinedTransactionRead) bool {
	if p.start != nil && rec.Timestamp.Before(*p.start) {
		return false
	}
	if p.end != nil && !rec.Timestamp.Before(p.end.AddDate(0, 0, 1)) {
		return false
	}
	if p.amount != nil {
		switch p.comparison {
		case dto.CompareLessThan:
			if !rec.Amount.LessThan(*p.amount) {
				return false
			}
		case dto.CompareGreaterThan:
			if !rec.Amount.GreaterThan(*p.amount) {
				return false
			}
		case dto.CompareEqual:
			if !rec.Amount.Equal(*p.amount) {
				return false
			}
		}
	}
	if p.sourceIBAN != "" && rec.SourceIBAN != p.sourceIBAN {
		return false
	}
	if p.targetIBAN != "" && rec.TargetIBAN != p.targetIBAN {
		return false
	}
	if p.description != "" &&
		!strings.Contains(strings.ToLower(rec.Description), p.description) {
		return false
	}
	return true
}

// paginate slices the filtered sequence to [page*pageSize,
// page*pageSize+pageSize), clamped to its length. An out-of-range start
// yields an empty page, not an error.
func paginate(
	records []dto.CombinedTransactionRead,
	page, pageSize int,
) *dto.Page[dto.CombinedTransactionRead] {
	result := &dto.Page[dto.CombinedTransactionRead]{
		Content:    []dto.CombinedTransactionRead{},
		TotalCount: len(records),
	}
	if page < 0 || pageSize <= 0 {
		return result
	}
	start := page * pageSize
	if start >= len(records) {
		return result
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	result.Content = records[start:end]
	return result
}
