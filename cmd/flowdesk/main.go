package main

import (
	"context"
	"fmt"
	"os"

	"github.com/financeflow/flowdesk/internal/auth"
	"github.com/financeflow/flowdesk/internal/cli"
	"github.com/financeflow/flowdesk/internal/cli/formatter"
	"github.com/financeflow/flowdesk/internal/config"
	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/notify"
	"github.com/financeflow/flowdesk/internal/repository"
	"github.com/financeflow/flowdesk/internal/service"
	"github.com/financeflow/flowdesk/internal/store"
	"github.com/financeflow/flowdesk/internal/telemetry"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tracing, err := telemetry.NewProvider(cfg.TraceFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			logger.Warn("shutting down tracing", zap.Error(err))
		}
	}()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Sessions
	secret, err := cfg.SigningSecret()
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(secret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(
		auth.NewDirectory(database),
		issuer,
		auth.NewFileSession(cfg.SessionFile, issuer),
		cfg.AdminEmails,
	)

	// Store gateway and repositories
	client := store.New(database, sessions,
		store.WithLogger(logger),
		store.WithTracer(tracing.Tracer("flowdesk/store")),
	)
	boardRepo := repository.NewStoreBoardRepo(client)
	agencyRepo := repository.NewStoreAgencyRepo(client)
	profileRepo := repository.NewStoreProfileRepo(client)
	expenseRepo := repository.NewStoreExpenseRepo(client)
	notificationRepo := repository.NewSQLiteNotificationRepo(database)

	// Reminders
	reminders := notify.NewService(notificationRepo, notify.StaticPermissions{Granted: true}, notify.WithLogger(logger))
	dispatcher := notify.NewDispatcher(notificationRepo, notify.WriterSink{W: os.Stdout}, cfg.NotifyInterval, logger)

	// Services
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewZapUseCaseObserver(logger))
	}
	boards := service.NewBoardService(boardRepo, agencyRepo, sessions, observers...)
	finance := service.NewFinanceService(expenseRepo, sessions, reminders, observers...)
	subscriptions := service.NewSubscriptionService(profileRepo, sessions, observers...)

	money, err := formatter.NewMoney(cfg.Currency)
	if err != nil {
		return err
	}

	app := &cli.App{
		Boards:        boards,
		Finance:       finance,
		Subscriptions: subscriptions,
		Companies:     service.NewCompanyService(client, agencyRepo, profileRepo, client, observers...),
		Overview:      service.NewOverviewService(boards, finance, subscriptions, sessions, observers...),
		Notifications: reminders,
		Reminders:     dispatcher,
		Sessions:      sessions,
		Money:         money,
		Interactive:   isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
