package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/bus"
	"github.com/mamadbah2/farmdash/internal/config"
	"github.com/mamadbah2/farmdash/internal/metrics"
	"github.com/mamadbah2/farmdash/internal/mockdata"
	"github.com/mamadbah2/farmdash/internal/repository/mongodb"
	"github.com/mamadbah2/farmdash/internal/repository/sheets"
	"github.com/mamadbah2/farmdash/internal/scheduler"
	"github.com/mamadbah2/farmdash/internal/server/handlers"
	"github.com/mamadbah2/farmdash/internal/server/router"
	digestsvc "github.com/mamadbah2/farmdash/internal/service/digest"
	operationssvc "github.com/mamadbah2/farmdash/internal/service/operations"
	reportingsvc "github.com/mamadbah2/farmdash/internal/service/reporting"
	"github.com/mamadbah2/farmdash/internal/store"
	whatsappclient "github.com/mamadbah2/farmdash/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmdash/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid reporting timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	generator := mockdata.New(mockdata.WithFarmProfile(cfg.Farm.Name, cfg.Farm.Location))
	farmStore := store.New(generator.Snapshot(), generator,
		store.WithProductionWindow(cfg.Refresh.ProductionWindow),
		store.WithLogger(logger.Named(baseLogger, "store")))

	collector := metrics.New()
	collector.Observe(farmStore.Snapshot())
	farmStore.Subscribe(collector.Listener())

	if cfg.NATS.Enabled() {
		publisher, err := bus.NewPublisher(cfg.NATS.URL)
		if err != nil {
			baseLogger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				baseLogger.Error("failed to close nats connection", zap.Error(err))
			}
		}()
		farmStore.Subscribe(bus.Forwarder(publisher, cfg.NATS.Subject, logger.Named(baseLogger, "bus")))
		baseLogger.Info("snapshot events enabled", zap.String("subject", cfg.NATS.Subject))
	}

	var (
		sinks   []digestsvc.Sink
		archive handlers.ReportArchive
	)

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks = append(sinks, digestsvc.NewArchiveSink(mongoRepo))
		archive = mongoRepo
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, digestsvc.NewSheetSink(sheetsRepo))
	}

	if cfg.WhatsApp.Enabled() {
		sinks = append(sinks, digestsvc.NewMessageSink(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.OperatorID))
	} else {
		baseLogger.Warn("whatsapp access token missing, digest messages disabled")
	}

	reportingSvc := reportingsvc.NewService(farmStore, loc, logger.Named(baseLogger, "svc.reporting"))
	digestSvc := digestsvc.NewService(farmStore, reportingSvc, loc, logger.Named(baseLogger, "svc.digest"), sinks...)
	operationsSvc := operationssvc.NewService(farmStore, logger.Named(baseLogger, "svc.operations"))

	farmHandler := handlers.NewFarmHandler(farmStore, operationsSvc, reportingSvc, archive, logger.Named(baseLogger, "handlers.farm"))
	engine := router.New(farmHandler, collector.Handler(), logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(farmStore, cfg.Refresh.Interval, digestSvc, cfg.Reporting.CronSchedule, loc, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("farm", farmStore.Snapshot().Farm.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
