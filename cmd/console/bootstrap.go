package main

import (
	"context"
	"fmt"
	"os"

	"trader-admin-console/internal/adminapi"
	"trader-admin-console/internal/adminapi/apiobs"
	"trader-admin-console/internal/auditlog"
	"trader-admin-console/internal/console"
	"trader-admin-console/internal/interfaces"
	"trader-admin-console/internal/logger"
	"trader-admin-console/internal/pnl"
	"trader-admin-console/internal/roster"
	"trader-admin-console/internal/session"
	"trader-admin-console/internal/store"
	"trader-admin-console/internal/trace"
	"trader-admin-console/internal/trades"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger, and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads and returns the configuration.
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldAudit compresses aged audit files per the retention setting.
func compressOldAudit(ctx context.Context, cfg *store.Config) {
	auditlog.SetDir(cfg.Audit.Dir)
	if cfg.Audit.RetentionDays > 0 {
		if err := auditlog.CompressOlder(cfg.Audit.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old audit logs", "error", err)
		}
	}
}

// initializeAPI builds the admin API client wrapped with observability.
func initializeAPI(ctx context.Context, cfg *store.Config, gate *session.Gate) interfaces.AdminAPI {
	if gate.Authenticated() {
		logger.Info(ctx, "Resuming persisted session")
	}
	return apiobs.Wrap(adminapi.New(cfg, gate))
}

// buildConsole wires the views over the API client.
func buildConsole(cfg *store.Config, gate *session.Gate, api interfaces.AdminAPI) *console.Console {
	calc := pnl.New(cfg.NiftyMultiplier)
	tradesVM := trades.New(api, calc, cfg.PageLimit)
	rosterCtl := roster.New(api, cfg.PageLimit)
	return console.New(api, gate, tradesVM, rosterCtl, os.Stdin, os.Stdout)
}
