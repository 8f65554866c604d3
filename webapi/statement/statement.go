// Package statement exposes the combined transaction view over HTTP.
package statement

import (
	"strconv"

	"github.com/amberbank/bankcore/pkg/dto"
	statementsvc "github.com/amberbank/bankcore/pkg/service/statement"
	"github.com/amberbank/bankcore/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Routes registers HTTP routes for the combined transaction view.
//
//   - GET /accounts/:id/transactions : filtered, paginated view per account
//   - GET /transactions              : administrative cross-account view
func Routes(app *fiber.App, svc *statementsvc.Service) {
	app.Get("/accounts/:id/transactions", GetFiltered(svc))
	app.Get("/transactions", GetAllCombined(svc))
}

// GetFiltered returns a Fiber handler serving one page of the combined
// projection for an account. Filters arrive as query parameters:
// start_date, end_date (2006-01-02), amount with comparison (lt|gt|eq),
// source_iban, target_iban, and a case-insensitive description substring.
func GetFiltered(svc *statementsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid account ID",
				"account ID must be a valid UUID",
			)
		}

		filter := dto.CombinedFilter{
			StartDate:   c.Query("start_date"),
			EndDate:     c.Query("end_date"),
			Comparison:  dto.AmountComparison(c.Query("comparison")),
			SourceIBAN:  c.Query("source_iban"),
			TargetIBAN:  c.Query("target_iban"),
			Description: c.Query("description"),
		}
		if raw := c.Query("amount"); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return common.ErrorResponseJSON(
					c, fiber.StatusBadRequest, "Invalid amount filter",
					"amount must be a decimal number",
				)
			}
			filter.Amount = &amount
		}
		page, pageSize := pagination(c)

		result, err := svc.GetFiltered(c.Context(), accountID, filter, page, pageSize)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to get transactions", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Transactions listed", ToPageResponse(result, page, pageSize),
		)
	}
}

// GetAllCombined returns a Fiber handler serving the unfiltered
// cross-account view, paginated and ordered by timestamp descending.
func GetAllCombined(svc *statementsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, pageSize := pagination(c)
		result, err := svc.GetAllCombined(c.Context(), page, pageSize)
		if err != nil {
			return common.DomainErrorJSON(c, "Failed to get transactions", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Transactions listed", ToPageResponse(result, page, pageSize),
		)
	}
}

func pagination(c *fiber.Ctx) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page", "0"))
	if page < 0 {
		page = 0
	}
	pageSize, _ = strconv.Atoi(c.Query("size", strconv.Itoa(defaultPageSize)))
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
