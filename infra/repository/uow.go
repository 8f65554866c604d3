// Package repository provides the GORM-backed unit of work binding all
// repositories to one database session per business operation.
package repository

import (
	"context"

	accountrepo "github.com/amberbank/bankcore/infra/repository/account"
	atmrepo "github.com/amberbank/bankcore/infra/repository/atm"
	combinedrepo "github.com/amberbank/bankcore/infra/repository/combined"
	transferrepo "github.com/amberbank/bankcore/infra/repository/transfer"
	"github.com/amberbank/bankcore/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share the transaction
// session, so a settled record's balance write and status write commit as
// a single atomic unit.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a transaction boundary, providing a UoW bound to it.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the transaction session when inside Do, the bare
// connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return accountrepo.New(u.session()), nil
}

// AtmTransactionRepository implements repository.UnitOfWork.
func (u *UoW) AtmTransactionRepository() (repository.AtmTransactionRepository, error) {
	return atmrepo.New(u.session()), nil
}

// TransferRepository implements repository.UnitOfWork.
func (u *UoW) TransferRepository() (repository.TransferRepository, error) {
	return transferrepo.New(u.session()), nil
}

// CombinedReader implements repository.UnitOfWork.
func (u *UoW) CombinedReader() (repository.CombinedReader, error) {
	return combinedrepo.New(u.session()), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
