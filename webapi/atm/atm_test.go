package atm_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	infrabus "github.com/amberbank/bankcore/infra/eventbus"
	"github.com/amberbank/bankcore/internal/fixtures"
	atmsvc "github.com/amberbank/bankcore/pkg/service/atm"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	atmapi "github.com/amberbank/bankcore/webapi/atm"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *fixtures.MemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fixtures.NewMemoryStore()
	svc := atmsvc.NewService(
		store, ledger.New(logger), ledger.NewAccountLocks(),
		infrabus.NewWithMemory(logger), logger,
	)
	app := fiber.New()
	atmapi.Routes(app, svc)
	return app, store
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateAtmTransactionEndpoint(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	app, store := newTestApp(t)
	acct := store.AddAccount("100", "0", "1000")

	resp := postJSON(t, app, "/transactions/atm", fiber.Map{
		"iban":   acct.IBAN,
		"type":   "WITHDRAW",
		"amount": 30,
	})
	assert.Equal(fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Data atmapi.AtmTransactionResponse `json:"data"`
	}
	require.NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal("PENDING", envelope.Data.Status)
	assert.Equal(acct.ID.String(), envelope.Data.AccountID)

	// Submission must not move money; that is the settlement cycle's job.
	assert.True(store.Balance(acct.ID).Equal(acct.Balance))
}

func TestCreateAtmTransactionEndpointValidation(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	app, store := newTestApp(t)
	acct := store.AddAccount("100", "0", "1000")

	resp := postJSON(t, app, "/transactions/atm", fiber.Map{
		"iban":   acct.IBAN,
		"type":   "REFUND",
		"amount": 30,
	})
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode, "unknown type is rejected")

	resp = postJSON(t, app, "/transactions/atm", fiber.Map{
		"iban":   acct.IBAN,
		"type":   "WITHDRAW",
		"amount": -5,
	})
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode, "negative amount is rejected")

	resp = postJSON(t, app, "/transactions/atm", fiber.Map{
		"iban":   "NL00FAKE0000000000",
		"type":   "DEPOSIT",
		"amount": 10,
	})
	assert.Equal(fiber.StatusNotFound, resp.StatusCode, "unknown IBAN maps to 404")
}

func TestGetAtmTransactionEndpoint(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)
	app, store := newTestApp(t)
	acct := store.AddAccount("100", "0", "1000")

	resp := postJSON(t, app, "/transactions/atm", fiber.Map{
		"iban":   acct.IBAN,
		"type":   "DEPOSIT",
		"amount": 42.50,
	})
	var created struct {
		Data atmapi.AtmTransactionResponse `json:"data"`
	}
	require.NoError(json.NewDecoder(resp.Body).Decode(&created))

	req := httptest.NewRequest(fiber.MethodGet, "/transactions/atm/"+created.Data.ID, nil)
	resp, err := app.Test(req)
	require.NoError(err)
	assert.Equal(fiber.StatusOK, resp.StatusCode)

	var fetched struct {
		Data atmapi.AtmTransactionResponse `json:"data"`
	}
	require.NoError(json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(created.Data.ID, fetched.Data.ID)
	assert.Equal("DEPOSIT", fetched.Data.Type)

	req = httptest.NewRequest(fiber.MethodGet, "/transactions/atm/"+uuid.NewString(), nil)
	resp, err = app.Test(req)
	require.NoError(err)
	assert.Equal(fiber.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/transactions/atm/not-a-uuid", nil)
	resp, err = app.Test(req)
	require.NoError(err)
	assert.Equal(fiber.StatusBadRequest, resp.StatusCode)
}
