// Package transfer exposes the transfer engine over HTTP.
package transfer

import (
	transfersvc "github.com/amberbank/bankcore/pkg/service/transfer"
	"github.com/amberbank/bankcore/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routes registers HTTP routes for transfers.
//
//   - POST /transfers               : validate and settle a transfer
//   - GET  /accounts/:id/transfers  : list transfers touching an account
func Routes(app *fiber.App, svc *transfersvc.Service) {
	app.Post("/transfers", PostTransfer(svc))
	app.Get("/accounts/:id/transfers", ListTransfers(svc))
}

// PostTransfer returns a Fiber handler that validates and settles a
// transfer between two IBANs. A transfer that fails its business checks
// is still returned with status FAILED; only unresolvable IBANs and
// malformed input produce error responses.
func PostTransfer(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PostTransferRequest](c)
		if input == nil {
			return err
		}
		tx, err := svc.PostTransfer(
			c.Context(),
			input.SourceIBAN,
			input.TargetIBAN,
			decimal.NewFromFloat(input.Amount),
			input.Description,
		)
		if err != nil {
			log.Errorf("failed to post transfer: %v", err)
			return common.DomainErrorJSON(c, "Failed to post transfer", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusCreated, "Transfer posted", ToTransferResponse(tx),
		)
	}
}

// ListTransfers returns a Fiber handler that lists all transfers where
// the account is source or target.
func ListTransfers(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid account ID",
				"account ID must be a valid UUID",
			)
		}
		txs, err := svc.ListTransactionsForAccount(c.Context(), accountID)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to list transfers", err)
		}
		out := make([]*TransferResponse, 0, len(txs))
		for _, tx := range txs {
			out = append(out, ToTransferReadResponse(tx))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfers listed", out)
	}
}
