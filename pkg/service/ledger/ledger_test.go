package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/amberbank/bankcore/internal/fixtures"
	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyDelta(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fixtures.NewMemoryStore()
	svc := ledger.New(logger)
	acct := store.AddAccount("100", "0", "1000")

	err := store.Do(context.Background(), func(uow repository.UnitOfWork) error {
		balance, err := svc.ApplyDelta(context.Background(), uow, acct.ID, dec("50"))
		require.NoError(err)
		assert.True(balance.Equal(dec("150")))

		balance, err = svc.ApplyDelta(context.Background(), uow, acct.ID, dec("-70.25"))
		require.NoError(err)
		assert.True(balance.Equal(dec("79.75")), "deltas are signed, negative debits")
		return nil
	})
	require.NoError(err)
	assert.True(store.Balance(acct.ID).Equal(dec("79.75")))
}

func TestApplyDeltaUnknownAccount(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fixtures.NewMemoryStore()
	svc := ledger.New(logger)

	err := store.Do(context.Background(), func(uow repository.UnitOfWork) error {
		_, err := svc.ApplyDelta(context.Background(), uow, uuid.New(), dec("10"))
		return err
	})
	require.ErrorIs(err, domain.ErrAccountNotFound)
}

func TestAccountLocksSerializeMutation(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	locks := ledger.NewAccountLocks()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock(id)
			counter++
			locks.Unlock(id)
		}()
	}
	wg.Wait()
	assert.Equal(50, counter)
}

func TestAccountLocksDuplicateIDs(t *testing.T) {
	t.Parallel()
	locks := ledger.NewAccountLocks()
	id := uuid.New()

	// Same id on both sides of a transfer must not self-deadlock.
	locks.Lock(id, id)
	locks.Unlock(id, id)
}

func TestAccountLocksOpposingPairs(t *testing.T) {
	t.Parallel()
	locks := ledger.NewAccountLocks()
	a, b := uuid.New(), uuid.New()

	// Opposing transfers acquire the pair in opposite argument order; the
	// registry's fixed ordering must prevent a deadlock.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			locks.Lock(a, b)
			locks.Unlock(a, b)
		}()
		go func() {
			defer wg.Done()
			locks.Lock(b, a)
			locks.Unlock(b, a)
		}()
	}
	wg.Wait()
}
