// Package combined implements the cross-account administrative view as a
// native UNION over the transfer and ATM transaction tables.
package combined

import (
	"context"
	"time"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/dto"
	repo "github.com/amberbank/bankcore/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reader struct {
	db *gorm.DB
}

// New creates a combined reader using the provided *gorm.DB.
func New(db *gorm.DB) repo.CombinedReader {
	return &reader{db: db}
}

type unionRow struct {
	ID            uuid.UUID       `gorm:"column:id"`
	Kind          string          `gorm:"column:kind"`
	SourceIBAN    string          `gorm:"column:source_iban"`
	TargetIBAN    string          `gorm:"column:target_iban"`
	Amount        decimal.Decimal `gorm:"column:amount"`
	Description   string          `gorm:"column:description"`
	Timestamp     time.Time       `gorm:"column:timestamp"`
	Status        string          `gorm:"column:status"`
	FailureReason string          `gorm:"column:failure_reason"`
}

// ListAll implements repository.CombinedReader. ATM rows expose the
// account IBAN on the side money moves across: source for withdrawals,
// target for deposits.
func (r *reader) ListAll(
	ctx context.Context,
	limit, offset int,
) ([]dto.CombinedTransactionRead, error) {
	var rows []unionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id,
		       'TRANSFER' AS kind,
		       src.iban AS source_iban,
		       dst.iban AS target_iban,
		       t.amount,
		       t.description,
		       t.timestamp,
		       t.status,
		       '' AS failure_reason
		FROM transactions t
		JOIN accounts src ON src.id = t.source_account_id
		JOIN accounts dst ON dst.id = t.target_account_id
		UNION ALL
		SELECT a.id,
		       'ATM' AS kind,
		       CASE WHEN a.type = 'WITHDRAW' THEN acc.iban ELSE '' END AS source_iban,
		       CASE WHEN a.type = 'DEPOSIT' THEN acc.iban ELSE '' END AS target_iban,
		       a.amount,
		       a.type AS description,
		       a.timestamp,
		       a.status,
		       COALESCE(a.failure_reason, '') AS failure_reason
		FROM atm_transactions a
		JOIN accounts acc ON acc.id = a.account_id
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]dto.CombinedTransactionRead, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.CombinedTransactionRead{
			ID:            row.ID,
			Kind:          domain.TransactionKind(row.Kind),
			SourceIBAN:    row.SourceIBAN,
			TargetIBAN:    row.TargetIBAN,
			Amount:        row.Amount,
			Description:   row.Description,
			Timestamp:     row.Timestamp,
			Status:        row.Status,
			FailureReason: row.FailureReason,
		})
	}
	return result, nil
}

// CountAll implements repository.CombinedReader.
func (r *reader) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Raw(`
		SELECT (SELECT COUNT(*) FROM transactions)
		     + (SELECT COUNT(*) FROM atm_transactions) AS count`,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
