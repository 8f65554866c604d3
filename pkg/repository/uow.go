package repository

import "context"

// UnitOfWork defines the contract for transactional work and repository
// access. Keeping repository accessors on the UnitOfWork guarantees that
// all repositories inside one Do callback share the same database
// session, which is what makes "read balance, validate, write balance,
// write status" a single atomic unit per settled record.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed
	// to fn hands out repositories bound to that transaction. If fn
	// returns an error the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	AtmTransactionRepository() (AtmTransactionRepository, error)
	TransferRepository() (TransferRepository, error)
	CombinedReader() (CombinedReader, error)
}
