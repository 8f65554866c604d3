// Package atm exposes the ATM settlement engine over HTTP.
package atm

import (
	"github.com/amberbank/bankcore/pkg/domain"
	atmsvc "github.com/amberbank/bankcore/pkg/service/atm"
	"github.com/amberbank/bankcore/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routes registers HTTP routes for ATM transactions.
//
//   - POST /transactions/atm     : submit a cash transaction (created pending)
//   - GET  /transactions/atm/:id : fetch a cash transaction by id
func Routes(app *fiber.App, svc *atmsvc.Service) {
	app.Post("/transactions/atm", CreateTransaction(svc))
	app.Get("/transactions/atm/:id", GetTransaction(svc))
}

// CreateTransaction returns a Fiber handler that records a new pending
// cash transaction for the IBAN in the request body.
func CreateTransaction(svc *atmsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAtmTransactionRequest](c)
		if input == nil {
			return err
		}
		tx, err := svc.CreateTransactionForIBAN(
			c.Context(),
			input.IBAN,
			domain.AtmTransactionType(input.Type),
			decimal.NewFromFloat(input.Amount),
		)
		if err != nil {
			log.Errorf("failed to create atm transaction: %v", err)
			return common.DomainErrorJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusCreated, "Transaction created", ToAtmTransactionResponse(tx),
		)
	}
}

// GetTransaction returns a Fiber handler that fetches a cash transaction
// by id.
func GetTransaction(svc *atmsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid transaction ID",
				"transaction ID must be a valid UUID",
			)
		}
		tx, err := svc.GetTransaction(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Transaction found", ToAtmTransactionResponse(tx),
		)
	}
}
