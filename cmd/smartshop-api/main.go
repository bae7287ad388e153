package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nesquaeke/smartshop/internal/config"
	"github.com/nesquaeke/smartshop/internal/http"
	"github.com/nesquaeke/smartshop/internal/log"
	"github.com/nesquaeke/smartshop/internal/repository"
	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/internal/storage/db"
	"github.com/nesquaeke/smartshop/internal/telemetry"
	"github.com/nesquaeke/smartshop/pkg/cmdutil"
	"github.com/nesquaeke/smartshop/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running api application: %v\n", err)
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
		HTTP     config.HTTP
		Catalog  config.Catalog
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

	productRepository := repository.NewProductRepository(dbClient)
	storeRepository := repository.NewStoreRepository(dbClient)
	offerRepository := repository.NewOfferRepository(dbClient)

	comparisonService := service.NewComparisonService(productRepository, offerRepository)
	catalogService := service.NewCatalogService(cfg.Catalog, productRepository, storeRepository)

	interruptChan := cmdutil.InterruptChan()

	svc := http.New(cfg.HTTP, logger, validate, comparisonService, catalogService)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

	<-interruptChan

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "http service is stopped")

	return nil
}
