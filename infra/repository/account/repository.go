// Package account implements the account repository over GORM/Postgres.
package account

import (
	"context"
	"errors"

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

// New creates an account repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.AccountRepository {
	return &repository{db: db}
}

// Get implements repository.AccountRepository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToReadDTO(&acct), nil
}

// GetByIBAN implements repository.AccountRepository.
func (r *repository) GetByIBAN(ctx context.Context, iban string) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "iban = ?", iban).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToReadDTO(&acct), nil
}

// UpdateBalance implements repository.AccountRepository.
func (r *repository) UpdateBalance(
	ctx context.Context,
	id uuid.UUID,
	balance decimal.Decimal,
) error {
	result := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func mapModelToReadDTO(acct *Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:            acct.ID,
		UserID:        acct.UserID,
		IBAN:          acct.IBAN,
		Balance:       acct.Balance,
		AbsoluteLimit: acct.AbsoluteLimit,
		DailyLimit:    acct.DailyLimit,
		WithdrawLimit: acct.WithdrawLimit,
		CreatedAt:     acct.CreatedAt,
	}
}
