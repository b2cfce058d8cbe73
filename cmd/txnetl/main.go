package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"txnetl/internal/amqp"
	"txnetl/internal/config"
	"txnetl/internal/etl"
	"txnetl/internal/log"
	"txnetl/internal/sink/csvout"
	csvsource "txnetl/internal/source/csv"
	"txnetl/internal/source/sheet"
	"txnetl/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	var source etl.Source
	switch cfg.SourceBackend {
	case "sheet":
		cli, err := sheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("failed to initialize sheet source", log.FieldError, err)
			os.Exit(1)
		}
		source = cli
		logger.Info("initialized sheet source",
			log.FieldSourceBackend, cfg.SourceBackend,
			log.FieldSheetsRef, cfg.GoogleSpreadsheetID)
	default:
		source = csvsource.NewReader(cfg.InputPath)
		logger.Info("initialized csv source",
			log.FieldSourceBackend, cfg.SourceBackend,
			log.FieldInputPath, cfg.InputPath)
	}

	var sink etl.Sink
	var warehouse *storage.Warehouse
	switch cfg.SinkBackend {
	case "sqlite":
		w, err := storage.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("failed to open warehouse", log.FieldError, err)
			os.Exit(1)
		}
		defer w.Close()
		warehouse = w
		sink = w
		logger.Info("initialized sqlite sink", log.FieldSinkBackend, cfg.SinkBackend)
	default:
		sink = csvout.NewWriter(cfg.OutputDir)
		logger.Info("initialized csv sink",
			log.FieldSinkBackend, cfg.SinkBackend,
			log.FieldOutputDir, cfg.OutputDir)
	}

	_, report, runErr := etl.New(source, sink, logger).Run(ctx)

	if warehouse != nil {
		if err := warehouse.RecordRun(ctx, report); err != nil {
			logger.Error("failed to record run", log.FieldError, err)
		}
	}

	render(logger, report)

	if runErr != nil {
		os.Exit(1)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("failed to connect to AMQP", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		if err := client.PublishRunCompleted(ctx, report); err != nil {
			logger.Error("failed to publish run event", log.FieldError, err)
			os.Exit(1)
		}
	}
}

// render logs the structured run report, the replacement for the console
// progress output of ad-hoc batch scripts.
func render(logger *log.Logger, report etl.RunReport) {
	logger.Info("run report",
		log.FieldRunID, report.RunID,
		log.FieldState, string(report.State),
		log.FieldRecordCount, report.Extracted,
		log.FieldRemovedCount, report.Removed,
		log.FieldDailyRows, report.DailyRows,
		log.FieldCategoryRows, report.CategoryRows,
		log.FieldDuration, report.FinishedAt.Sub(report.StartedAt).Milliseconds())

	for column, count := range report.NullCounts {
		if count > 0 {
			logger.Warn("column has missing values",
				log.FieldRunID, report.RunID,
				"column", column,
				log.FieldNullCount, count)
		}
	}
}
