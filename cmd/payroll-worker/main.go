package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payroll/internal/backend"
	"payroll/internal/cli"
	"payroll/internal/config"
	applog "payroll/internal/log"
	"payroll/internal/sheets/google"
	"payroll/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(config.Load().SlogLevel()).WithComponent(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	// The worker only reads the roster.
	backendCfg.ActivityDBPath = ""
	backendCfg.AMQPURL = ""

	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize employee backend", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	sheets, err := google.New(ctx, google.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := cli.InitAMQP(logger, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	rosterSync := worker.NewRosterSync(result.Backend, sheets, cfg.SyncInterval)
	if err := rosterSync.Start(ctx); err != nil {
		logger.Error("Failed to start roster sync", "error", err)
		os.Exit(1)
	}

	consumeErr := make(chan error, 1)
	if amqpClient != nil {
		go func() {
			consumeErr <- amqpClient.ConsumeEmployeeChanged(ctx, rosterSync.HandleEmployeeChanged)
		}()
	}

	logger.Info("Roster worker started",
		"interval", cfg.SyncInterval.String(),
		"sheet", cfg.GoogleSheetName,
		"events", amqpClient != nil)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumer stopped", "error", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := rosterSync.Stop(shutdownCtx); err != nil {
		logger.Error("Roster sync shutdown error", "error", err)
	}
	logger.Info("Roster worker stopped")
}
