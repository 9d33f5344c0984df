// Command server runs the FinanceZZ API, its background worker and the
// database migrations.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/config"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/recurring"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage/sqlite"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/telemetry"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/worker"
	"github.com/NaranjoDevv/FinanceZZ-sub001/pkg/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "financezz",
	Short:         "FinanceZZ personal finance server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	logging.Setup()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// app holds what every command shares.
type app struct {
	cfg      *config.Config
	loc      *time.Location
	store    *sqlite.SQLiteStore
	enforcer *billing.Enforcer
	metrics  *telemetry.Metrics
	executor *recurring.Executor
	worker   *worker.Worker
	flush    func()
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// .env may have set LOG_LEVEL or LOG_FORMAT.
	logging.Setup()
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	flush, err := telemetry.InitSentry(cfg.SentryDSN, version)
	if err != nil {
		return nil, err
	}

	catalog, err := billing.LoadCatalog(cfg.PlansFile)
	if err != nil {
		flush()
		return nil, fmt.Errorf("load plans: %w", err)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		flush()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)

	logger := slog.Default()
	metrics := telemetry.NewMetrics()
	enforcer := billing.NewEnforcer(store, catalog, loc)
	executor := recurring.NewExecutor(store, enforcer, metrics, loc, logger)

	return &app{
		cfg:      cfg,
		loc:      loc,
		store:    store,
		enforcer: enforcer,
		metrics:  metrics,
		executor: executor,
		worker:   worker.New(store, executor, metrics, loc, logger),
		flush:    flush,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
	a.flush()
}
