package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nesquaeke/smartshop/internal/config"
	"github.com/nesquaeke/smartshop/internal/event"
	"github.com/nesquaeke/smartshop/internal/log"
	"github.com/nesquaeke/smartshop/internal/repository"
	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/internal/storage/db"
	"github.com/nesquaeke/smartshop/internal/storage/mq"
	"github.com/nesquaeke/smartshop/internal/telemetry"
	"github.com/nesquaeke/smartshop/pkg/cmdutil"
	"github.com/nesquaeke/smartshop/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running ingest application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	validate, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	offerRepository := repository.NewOfferRepository(dbClient)
	ingestService := service.NewIngestService(offerRepository)

	interruptChan := cmdutil.InterruptChan()

	svc := event.New(logger, validate, kafkaConsumer, kafkaProducer, ingestService)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running event service: %w", err)
	}

	logger.InfoContext(ctx, "event service started")

	<-interruptChan

	logger.InfoContext(ctx, "event service is shutting down")
	cleanup()

	logger.InfoContext(ctx, "event service is stopped")

	return nil
}
