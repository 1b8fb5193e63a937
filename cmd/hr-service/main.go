package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/handler"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/service"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/config"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/storage"
)

const serviceName = "hr-service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// The broker is optional: without it the service runs with event
	// emission disabled.
	var rmq *messaging.RabbitMQ
	var emitter *events.Emitter
	rmq, err = messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
		emitter = events.NewEmitter(nil, log)
		rmq = nil
	} else {
		defer rmq.Close()
		publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeHREvents, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		emitter = events.NewEmitter(publisher, log)
	}

	store, err := newStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize file storage")
	}

	clk := clock.Real{}

	// Repositories
	certRepo := repository.NewCertificateRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	typeRepo := repository.NewTrainingTypeRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	fileRepo := repository.NewFileVersionRepository(db)

	// Services
	certService := service.NewCertificateService(certRepo, employeeRepo, typeRepo, emitter, clk, log)
	employeeService := service.NewEmployeeService(employeeRepo, certRepo, typeRepo, emitter, clk, log)
	catalogService := service.NewCatalogService(deptRepo, typeRepo, providerRepo, log)
	reportService := service.NewReportService(certRepo, employeeRepo, deptRepo, typeRepo, clk, log)
	sweepService := service.NewSweepService(certRepo, emitter, clk, cfg.Sweep, log)
	fileService := service.NewFileService(fileRepo, employeeRepo, typeRepo, store, emitter, cfg.Storage.MaxFileSize, log)
	importExportService := service.NewImportExportService(
		certService, employeeService,
		employeeRepo, typeRepo, deptRepo, certRepo,
		emitter, clk, log,
	)

	if cfg.Sweep.Enabled {
		if err := sweepService.Schedule(cfg.Sweep.CronSpec); err != nil {
			log.Fatal().Err(err).Msg("failed to schedule expiry sweep")
		}
		defer sweepService.Stop()
	}

	router := handler.NewRouter(handler.Handlers{
		Certificates: handler.NewCertificateHandler(certService),
		Employees:    handler.NewEmployeeHandler(employeeService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Reports:      handler.NewReportHandler(reportService, sweepService),
		Files:        handler.NewFileHandler(fileService),
		ImportExport: handler.NewImportExportHandler(importExportService),
		Health:       handler.NewHealthHandler(db, rmq),
	}, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3KeyPrefix,
		})
	default:
		return storage.NewFSStore(cfg.Dir)
	}
}
