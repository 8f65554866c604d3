package dto

import (
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CombinedTransactionRead is the unified read projection over ATM
// transactions and transfers. It is built on demand and never persisted.
// For ATM entries SourceIBAN is set only for withdrawals and TargetIBAN
// only for deposits.
type CombinedTransactionRead struct {
	ID            uuid.UUID
	Kind          domain.TransactionKind
	SourceIBAN    string
	TargetIBAN    string
	Amount        decimal.Decimal
	Description   string
	Timestamp     time.Time
	Status        string
	FailureReason string
}

// AmountComparison selects the operator for the combined-view amount filter.
type AmountComparison string

const (
	CompareLessThan    AmountComparison = "lt"
	CompareGreaterThan AmountComparison = "gt"
	CompareEqual       AmountComparison = "eq"
)

// CombinedFilter narrows the combined projection. All predicates are
// conjunctive; zero values disable the corresponding predicate. Dates are
// raw "2006-01-02" strings because a malformed date must fail the whole
// query rather than be ignored.
type CombinedFilter struct {
	StartDate   string
	EndDate     string
	Amount      *decimal.Decimal
	Comparison  AmountComparison
	SourceIBAN  string
	TargetIBAN  string
	Description string
}

// Page is the envelope returned by paginated queries: one page of content
// plus the total filtered count for client-side page-count computation.
type Page[T any] struct {
	Content    []T
	TotalCount int
}
