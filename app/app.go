// Package app builds the services, registers event subscribers, and wires
// the HTTP routes and the settlement scheduler.
package app

import (
	"context"
	"log/slog"

	"github.com/amberbank/bankcore/pkg/config"
	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/eventbus"
	"github.com/amberbank/bankcore/pkg/repository"
	"github.com/amberbank/bankcore/pkg/scheduler"
	atmsvc "github.com/amberbank/bankcore/pkg/service/atm"
	"github.com/amberbank/bankcore/pkg/service/ledger"
	statementsvc "github.com/amberbank/bankcore/pkg/service/statement"
	transfersvc "github.com/amberbank/bankcore/pkg/service/transfer"
	atmapi "github.com/amberbank/bankcore/webapi/atm"
	"github.com/amberbank/bankcore/webapi/common"
	statementapi "github.com/amberbank/bankcore/webapi/statement"
	transferapi "github.com/amberbank/bankcore/webapi/transfer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps holds the externally constructed dependencies of the application.
type Deps struct {
	Uow    repository.UnitOfWork
	Bus    eventbus.Bus
	Logger *slog.Logger
	Config *config.App
}

// App bundles the HTTP surface and the settlement scheduler.
type App struct {
	Fiber     *fiber.App
	Scheduler *scheduler.Scheduler
}

// New builds all services, registers event subscribers, and returns the
// assembled application.
func New(deps Deps) *App {
	locks := ledger.NewAccountLocks()
	ledgerSvc := ledger.New(deps.Logger)
	atmSvc := atmsvc.NewService(deps.Uow, ledgerSvc, locks, deps.Bus, deps.Logger)
	transferSvc := transfersvc.NewService(deps.Uow, ledgerSvc, locks, deps.Bus, deps.Logger)
	statementSvc := statementsvc.NewService(deps.Uow, deps.Logger)

	registerAuditSubscribers(deps.Bus, deps.Logger)

	sched := scheduler.New(
		deps.Config.Settlement.Interval,
		atmSvc.SettlePending,
		deps.Logger,
	)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ErrorResponseJSON(
				c, fiber.StatusInternalServerError, "Internal Server Error", err.Error(),
			)
		},
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
	}))

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	atmapi.Routes(fiberApp, atmSvc)
	transferapi.Routes(fiberApp, transferSvc)
	statementapi.Routes(fiberApp, statementSvc)

	return &App{Fiber: fiberApp, Scheduler: sched}
}

// registerAuditSubscribers logs every settlement and transfer outcome.
// Failures are expected, auditable business results, so they log at info
// level like successes.
func registerAuditSubscribers(bus eventbus.Bus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	bus.Register("AtmTransactionSettled", func(_ context.Context, e domain.Event) error {
		evt, ok := e.(domain.AtmTransactionSettled)
		if !ok {
			return nil
		}
		audit.Info("atm transaction settled",
			"transaction_id", evt.TransactionID,
			"account_id", evt.AccountID,
			"type", evt.TransactionType,
			"amount", evt.Amount,
			"status", evt.Status,
			"failure_reason", evt.FailureReason,
		)
		return nil
	})
	bus.Register("TransferPosted", func(_ context.Context, e domain.Event) error {
		evt, ok := e.(domain.TransferPosted)
		if !ok {
			return nil
		}
		audit.Info("transfer posted",
			"transfer_id", evt.TransferID,
			"source_account_id", evt.SourceAccountID,
			"target_account_id", evt.TargetAccountID,
			"amount", evt.Amount,
			"status", evt.Status,
		)
		return nil
	})
}
