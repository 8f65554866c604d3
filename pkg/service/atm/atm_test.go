package atm_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infrabus "github.com/amberbank/bankcore/infra/eventbus"
	"github.com/amberbank/bankcore/internal/fixtures"
	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/service/atm"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*atm.Service, *fixtures.MemoryStore, *infrabus.MemoryEventBus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fixtures.NewMemoryStore()
	bus := infrabus.NewWithMemory(logger)
	svc := atm.NewService(store, ledger.New(logger), ledger.NewAccountLocks(), bus, logger)
	return svc, store, bus
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateTransactionIsPending(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	tx, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("30"))
	require.NoError(err)
	assert.Equal(domain.AtmPending, tx.Status, "new transactions must start pending")
	assert.True(store.Balance(acct.ID).Equal(dec("100")), "creation must not touch the balance")

	stored, ok := store.AtmTransaction(tx.ID)
	require.True(ok, "transaction should be persisted")
	assert.Equal(domain.AtmPending, stored.Status)
}

func TestCreateTransactionRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	_, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("0"))
	require.ErrorIs(err, domain.ErrAmountMustBePositive)

	_, err = svc.CreateTransaction(context.Background(), acct.ID, domain.AtmDeposit, dec("-5"))
	require.ErrorIs(err, domain.ErrAmountMustBePositive)
}

func TestCreateTransactionRejectsUnknownType(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	_, err := svc.CreateTransaction(context.Background(), acct.ID, "REFUND", dec("10"))
	require.ErrorIs(err, domain.ErrValidation)
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	svc, _, _ := newFixture(t)

	_, err := svc.CreateTransaction(context.Background(), uuid.New(), domain.AtmDeposit, dec("10"))
	require.ErrorIs(err, domain.ErrAccountNotFound)
}

func TestCreateTransactionForIBAN(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	tx, err := svc.CreateTransactionForIBAN(
		context.Background(), acct.IBAN, domain.AtmDeposit, dec("25"),
	)
	require.NoError(err)
	assert.Equal(acct.ID, tx.AccountID, "IBAN should resolve to the seeded account")

	_, err = svc.CreateTransactionForIBAN(
		context.Background(), "NL00FAKE0000000000", domain.AtmDeposit, dec("25"),
	)
	require.ErrorIs(err, domain.ErrAccountNotFound)
}

func TestGetTransaction(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	created, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmDeposit, dec("10"))
	require.NoError(err)

	got, err := svc.GetTransaction(context.Background(), created.ID)
	require.NoError(err)
	assert.Equal(created.ID, got.ID)
	assert.True(got.Amount.Equal(dec("10")))

	_, err = svc.GetTransaction(context.Background(), uuid.New())
	require.ErrorIs(err, domain.ErrTransactionNotFound)
}

func TestSettleWithdrawalSucceeds(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, bus := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	tx, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("30"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	assert.True(store.Balance(acct.ID).Equal(dec("70")),
		"balance should be debited exactly once")
	stored, ok := store.AtmTransaction(tx.ID)
	require.True(ok)
	assert.Equal(domain.AtmSucceeded, stored.Status)
	assert.Empty(stored.FailureReason)

	events := bus.Published()
	require.Len(events, 1)
	settled, ok := events[0].(domain.AtmTransactionSettled)
	require.True(ok, "settlement should emit AtmTransactionSettled")
	assert.Equal(tx.ID, settled.TransactionID)
	assert.Equal(domain.AtmSucceeded, settled.Status)
}

func TestSettleWithdrawalInsufficientBalance(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	tx, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("150"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	assert.True(store.Balance(acct.ID).Equal(dec("100")),
		"a failed withdrawal must not move money")
	stored, ok := store.AtmTransaction(tx.ID)
	require.True(ok)
	assert.Equal(domain.AtmFailed, stored.Status)
	assert.Equal(domain.ReasonInsufficientBalance, stored.FailureReason)
}

func TestSettleWithdrawalRespectsOverdraftFloor(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	// Floor of -50 leaves exactly 150 of headroom on a 100 balance.
	acct := store.AddAccount("100", "-50", "1000")

	fits, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("150"))
	require.NoError(err)
	tooMuch, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("1"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	assert.True(store.Balance(acct.ID).Equal(dec("-50")),
		"a withdrawal landing exactly on the floor is allowed")
	first, _ := store.AtmTransaction(fits.ID)
	assert.Equal(domain.AtmSucceeded, first.Status)
	second, _ := store.AtmTransaction(tooMuch.ID)
	assert.Equal(domain.AtmFailed, second.Status)
	assert.Equal(domain.ReasonInsufficientBalance, second.FailureReason)
}

func TestSettleWithdrawalDailyLimit(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "50")

	first, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("30"))
	require.NoError(err)
	second, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("30"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	assert.True(store.Balance(acct.ID).Equal(dec("70")),
		"only the first withdrawal fits under the daily limit")
	got, _ := store.AtmTransaction(first.ID)
	assert.Equal(domain.AtmSucceeded, got.Status)
	got, _ = store.AtmTransaction(second.ID)
	assert.Equal(domain.AtmFailed, got.Status)
	assert.Equal(domain.ReasonDailyLimitExceeded, got.FailureReason)
}

func TestSettleWithdrawalDailyLimitExactFit(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("100", "0", "50")

	tx, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("50"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	got, _ := store.AtmTransaction(tx.ID)
	assert.Equal(domain.AtmSucceeded, got.Status,
		"a withdrawal landing exactly on the daily limit is allowed")
	assert.True(store.Balance(acct.ID).Equal(dec("50")))
}

func TestSettleDepositAlwaysSucceeds(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("0", "0", "50")

	tx, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmDeposit, dec("500"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	got, _ := store.AtmTransaction(tx.ID)
	assert.Equal(domain.AtmSucceeded, got.Status)
	assert.True(store.Balance(acct.ID).Equal(dec("500")))
}

func TestSettleEmptyQueueIsNoop(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	svc, _, bus := newFixture(t)

	require.NoError(svc.SettlePending(context.Background()))
	require.Empty(bus.Published(), "nothing to settle, nothing to announce")
}

func TestSettleIsIdempotentAcrossCycles(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, bus := newFixture(t)
	acct := store.AddAccount("100", "0", "1000")

	_, err := svc.CreateTransaction(context.Background(), acct.ID, domain.AtmWithdraw, dec("30"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))
	require.NoError(svc.SettlePending(context.Background()))

	assert.True(store.Balance(acct.ID).Equal(dec("70")),
		"a second cycle must not debit a settled record again")
	assert.Len(bus.Published(), 1)
}

func TestSettleMixedAccountsIndependently(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	rich := store.AddAccount("1000", "0", "500")
	poor := store.AddAccount("10", "0", "500")

	_, err := svc.CreateTransaction(context.Background(), rich.ID, domain.AtmWithdraw, dec("200"))
	require.NoError(err)
	failing, err := svc.CreateTransaction(context.Background(), poor.ID, domain.AtmWithdraw, dec("200"))
	require.NoError(err)
	require.NoError(svc.SettlePending(context.Background()))

	assert.True(store.Balance(rich.ID).Equal(dec("800")))
	assert.True(store.Balance(poor.ID).Equal(dec("10")),
		"one account's failure must not block another's settlement")
	got, _ := store.AtmTransaction(failing.ID)
	assert.Equal(domain.AtmFailed, got.Status)
}
