package transfer_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infrabus "github.com/amberbank/bankcore/infra/eventbus"
	"github.com/amberbank/bankcore/internal/fixtures"
	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	"github.com/amberbank/bankcore/pkg/service/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*transfer.Service, *fixtures.MemoryStore, *infrabus.MemoryEventBus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fixtures.NewMemoryStore()
	bus := infrabus.NewWithMemory(logger)
	svc := transfer.NewService(store, ledger.New(logger), ledger.NewAccountLocks(), bus, logger)
	return svc, store, bus
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPostTransferSucceeds(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, bus := newFixture(t)
	source := store.AddAccount("10000", "0", "1000")
	target := store.AddAccount("0", "0", "1000")

	tx, err := svc.PostTransfer(
		context.Background(), source.IBAN, target.IBAN, dec("250"), "rent",
	)
	require.NoError(err)
	assert.Equal(domain.TransferSucceeded, tx.Status)
	assert.True(store.Balance(source.ID).Equal(dec("9750")))
	assert.True(store.Balance(target.ID).Equal(dec("250")))

	records := store.Transfers()
	require.Len(records, 1)
	assert.Equal(domain.TransferSucceeded, records[0].Status)
	assert.Equal("rent", records[0].Description)

	events := bus.Published()
	require.Len(events, 1)
	posted, ok := events[0].(domain.TransferPosted)
	require.True(ok, "posting should emit TransferPosted")
	assert.Equal(tx.ID, posted.TransferID)
}

func TestPostTransferInsufficientBalance(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	source := store.AddAccount("100", "0", "1000")
	target := store.AddAccount("0", "0", "1000")

	tx, err := svc.PostTransfer(
		context.Background(), source.IBAN, target.IBAN, dec("150"), "too much",
	)
	require.NoError(err, "a failed transfer is an outcome, not an error")
	assert.Equal(domain.TransferFailed, tx.Status)
	assert.True(store.Balance(source.ID).Equal(dec("100")))
	assert.True(store.Balance(target.ID).Equal(dec("0")))

	records := store.Transfers()
	require.Len(records, 1, "the failed attempt is persisted for audit")
	assert.Equal(domain.TransferFailed, records[0].Status)
}

func TestPostTransferRequiresStrictlyGreaterBalance(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	source := store.AddAccount("100", "0", "1000")
	target := store.AddAccount("0", "0", "1000")

	tx, err := svc.PostTransfer(
		context.Background(), source.IBAN, target.IBAN, dec("100"), "all of it",
	)
	require.NoError(err)
	assert.Equal(domain.TransferFailed, tx.Status,
		"balance equal to the amount is not enough")
	assert.True(store.Balance(source.ID).Equal(dec("100")))
}

func TestPostTransferIgnoresOverdraftFloor(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	// The floor would forbid dropping below 90, but transfers only check
	// the balance against the amount.
	source := store.AddAccount("100", "90", "1000")
	target := store.AddAccount("0", "0", "1000")

	tx, err := svc.PostTransfer(
		context.Background(), source.IBAN, target.IBAN, dec("50"), "",
	)
	require.NoError(err)
	assert.Equal(domain.TransferSucceeded, tx.Status)
	assert.True(store.Balance(source.ID).Equal(dec("50")))
}

func TestPostTransferSameAccountFails(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("500", "0", "1000")

	tx, err := svc.PostTransfer(
		context.Background(), acct.IBAN, acct.IBAN, dec("50"), "to myself",
	)
	require.NoError(err)
	assert.Equal(domain.TransferFailed, tx.Status)
	assert.True(store.Balance(acct.ID).Equal(dec("500")))

	records := store.Transfers()
	require.Len(records, 1)
	assert.Equal(domain.TransferFailed, records[0].Status)
}

func TestPostTransferUnknownIBAN(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	svc, store, _ := newFixture(t)
	acct := store.AddAccount("500", "0", "1000")

	_, err := svc.PostTransfer(
		context.Background(), "NL00FAKE0000000000", acct.IBAN, dec("50"), "",
	)
	require.ErrorIs(err, domain.ErrAccountNotFound)

	_, err = svc.PostTransfer(
		context.Background(), acct.IBAN, "NL00FAKE0000000000", dec("50"), "",
	)
	require.ErrorIs(err, domain.ErrAccountNotFound)
	require.Empty(store.Transfers(), "unresolvable transfers leave no record")
}

func TestPostTransferRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	svc, store, _ := newFixture(t)
	source := store.AddAccount("500", "0", "1000")
	target := store.AddAccount("0", "0", "1000")

	_, err := svc.PostTransfer(context.Background(), source.IBAN, target.IBAN, dec("0"), "")
	require.ErrorIs(err, domain.ErrAmountMustBePositive)

	_, err = svc.PostTransfer(context.Background(), source.IBAN, target.IBAN, dec("-10"), "")
	require.ErrorIs(err, domain.ErrAmountMustBePositive)
	require.Empty(store.Transfers())
}

func TestListTransactionsForAccount(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	svc, store, _ := newFixture(t)
	a := store.AddAccount("1000", "0", "1000")
	b := store.AddAccount("1000", "0", "1000")
	c := store.AddAccount("1000", "0", "1000")

	_, err := svc.PostTransfer(context.Background(), a.IBAN, b.IBAN, dec("10"), "a to b")
	require.NoError(err)
	_, err = svc.PostTransfer(context.Background(), b.IBAN, c.IBAN, dec("20"), "b to c")
	require.NoError(err)

	forB, err := svc.ListTransactionsForAccount(context.Background(), b.ID)
	require.NoError(err)
	assert.Len(forB, 2, "the account appears as target of one and source of the other")

	forA, err := svc.ListTransactionsForAccount(context.Background(), a.ID)
	require.NoError(err)
	require.Len(forA, 1)
	assert.Equal(a.IBAN, forA[0].SourceIBAN)
	assert.Equal(b.IBAN, forA[0].TargetIBAN)
}
