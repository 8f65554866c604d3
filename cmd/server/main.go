package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/amberbank/bankcore/app"
	infrabus "github.com/amberbank/bankcore/infra/eventbus"
	infrarepo "github.com/amberbank/bankcore/infra/repository"
	"github.com/amberbank/bankcore/pkg/config"

	"github.com/amberbank/bankcore/infra"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = infra.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a := app.New(app.Deps{
		Uow:    infrarepo.NewUoW(db),
		Bus:    infrabus.NewWithMemory(logger),
		Logger: logger,
		Config: cfg,
	})

	a.Scheduler.Start(context.Background())
	defer a.Scheduler.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return a.Fiber.Listen(addr)
}

func setupLogger(cfg *config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
