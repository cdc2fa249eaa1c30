package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trader-admin-console/internal/logger"
	"trader-admin-console/internal/session"
	"trader-admin-console/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}
	compressOldAudit(ctx, cfg)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down")
		cancel()
	}()

	gate := session.Open(cfg.TokenFile)
	api := initializeAPI(ctx, cfg, gate)
	ui := buildConsole(cfg, gate, api)

	if err := ui.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorWithErr(ctx, "Console exited with error", err)
	}

	if err := trace.Shutdown(context.Background()); err != nil {
		logger.Warn(ctx, "Tracer shutdown failed", "error", err)
	}
}
