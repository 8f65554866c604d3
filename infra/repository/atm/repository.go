// Package atm implements the ATM transaction repository over GORM/Postgres.
package atm

import (
	"context"
	"errors"
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

// New creates an ATM transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.AtmTransactionRepository {
	return &repository{db: db}
}

// Create implements repository.AtmTransactionRepository.
func (r *repository) Create(ctx context.Context, create dto.AtmTransactionCreate) error {
	tx := AtmTransaction{
		ID:        create.ID,
		AccountID: create.AccountID,
		Type:      create.Type,
		Amount:    create.Amount,
		Timestamp: create.Timestamp,
		Status:    create.Status,
	}
	return r.db.WithContext(ctx).Create(&tx).Error
}

// Get implements repository.AtmTransactionRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.AtmTransactionRead, error) {
	var tx AtmTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	read := mapModelToReadDTO(&tx)
	return &read, nil
}

// ListPending implements repository.AtmTransactionRepository.
func (r *repository) ListPending(ctx context.Context) ([]dto.AtmTransactionRead, error) {
	var txs []AtmTransaction
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.AtmPending).
		Order("timestamp asc").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReadDTOs(txs), nil
}

// ListByAccount implements repository.AtmTransactionRepository.
func (r *repository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]dto.AtmTransactionRead, error) {
	var txs []AtmTransaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReadDTOs(txs), nil
}

// UpdateStatus implements repository.AtmTransactionRepository.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	update dto.AtmTransactionUpdate,
) error {
	updates := map[string]any{"status": update.Status}
	if update.FailureReason != nil {
		updates["failure_reason"] = *update.FailureReason
	}
	result := r.db.WithContext(ctx).
		Model(&AtmTransaction{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumSucceededWithdrawals implements repository.AtmTransactionRepository.
func (r *repository) SumSucceededWithdrawals(
	ctx context.Context,
	accountID uuid.UUID,
	from, to time.Time,
) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&AtmTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where(
			"account_id = ? AND type = ? AND status = ? AND timestamp >= ? AND timestamp < ?",
			accountID, domain.AtmWithdraw, domain.AtmSucceeded, from, to,
		).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func mapModelToReadDTO(tx *AtmTransaction) dto.AtmTransactionRead {
	read := dto.AtmTransactionRead{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Type:      tx.Type,
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
		Status:    tx.Status,
	}
	if tx.FailureReason != nil {
		read.FailureReason = *tx.FailureReason
	}
	return read
}

func mapModelsToReadDTOs(txs []AtmTransaction) []dto.AtmTransactionRead {
	result := make([]dto.AtmTransactionRead, 0, len(txs))
	for i := range txs {
		result = append(result, mapModelToReadDTO(&txs[i]))
	}
	return result
}
