package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"cra/internal/amqp"
	"cra/internal/cli"
	"cra/internal/export"
	gexport "cra/internal/export/google"
	applog "cra/internal/log"
	"cra/internal/services"
	"cra/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting cra-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required: the worker consumes report-saved events")
		os.Exit(1)
	}

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	cal := cli.BuildCalendar(cfg)
	timetables := services.NewTimetableService(store, cal, nil)
	contacts := services.NewContactService(store)

	var exporter export.ReportExporter
	switch cfg.ExportBackend {
	case "sheets":
		exp, err := gexport.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = exp
		logger.Info("Initialized Google Sheets exporter")
	default:
		exp, err := export.NewCSVExporter(cfg.ExportDir)
		if err != nil {
			logger.Error("Failed to initialize CSV exporter", "error", err, "dir", cfg.ExportDir)
			os.Exit(1)
		}
		exporter = exp
		logger.Info("Initialized CSV exporter", "dir", cfg.ExportDir)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(timetables, contacts, exporter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeReportSaved(ctx, func(msg *amqp.ReportSavedMessage) error {
			return exportWorker.HandleReportSaved(ctx, msg)
		})
	})

	logger.Info("Worker started", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue, "exporter", cfg.ExportBackend)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
