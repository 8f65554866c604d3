// Package transfer implements the transfer repository over GORM/Postgres.
package transfer

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

type repository struct {
	db *gorm.DB
}

// New creates a transfer repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.TransferRepository {
	return &repository{db: db}
}

// Create implements repository.TransferRepository.
func (r *repository) Create(ctx context.Context, create dto.TransferCreate) error {
	tx := Transfer{
		ID:              create.ID,
		SourceAccountID: create.SourceAccountID,
		TargetAccountID: create.TargetAccountID,
		Amount:          create.Amount,
		Description:     create.Description,
		Timestamp:       create.Timestamp,
		Status:          create.Status,
	}
	return r.db.WithContext(ctx).Create(&tx).Error
}

// listRow carries the transfer row joined with both account IBANs.
type listRow struct {
	ID              uuid.UUID             `gorm:"column:id"`
	SourceAccountID uuid.UUID             `gorm:"column:source_account_id"`
	TargetAccountID uuid.UUID             `gorm:"column:target_account_id"`
	SourceIBAN      string                `gorm:"column:source_iban"`
	TargetIBAN      string                `gorm:"column:target_iban"`
	Amount          decimal.Decimal       `gorm:"column:amount"`
	Description     string                `gorm:"column:description"`
	Timestamp       time.Time             `gorm:"column:timestamp"`
	Status          domain.TransferStatus `gorm:"column:status"`
}

// ListByAccount implements repository.TransferRepository. The IBANs of
// both legs are denormalized in the query so the combined projection can
// be built without further account lookups.
func (r *repository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]dto.TransferRead, error) {
	var rows []listRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id,
		       t.source_account_id,
		       t.target_account_id,
		       src.iban AS source_iban,
		       dst.iban AS target_iban,
		       t.amount,
		       t.description,
		       t.timestamp,
		       t.status
		FROM transactions t
		JOIN accounts src ON src.id = t.source_account_id
		JOIN accounts dst ON dst.id = t.target_account_id
		WHERE t.source_account_id = @account OR t.target_account_id = @account`,
		map[string]any{"account": accountID},
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]dto.TransferRead, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.TransferRead{
			ID:              row.ID,
			SourceAccountID: row.SourceAccountID,
			TargetAccountID: row.TargetAccountID,
			SourceIBAN:      row.SourceIBAN,
			TargetIBAN:      row.TargetIBAN,
			Amount:          row.Amount,
			Description:     row.Description,
			Timestamp:       row.Timestamp,
			Status:          row.Status,
		})
	}
	return result, nil
}
