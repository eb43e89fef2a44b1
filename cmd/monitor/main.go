package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"saleshealth-monitor/internal/api"
	"saleshealth-monitor/internal/bus"
	"saleshealth-monitor/internal/config"
	"saleshealth-monitor/internal/engine"
	"saleshealth-monitor/internal/execlog"
	"saleshealth-monitor/internal/orchestrator"
	"saleshealth-monitor/internal/storage"
	"saleshealth-monitor/internal/warehouse"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()
	repo := storage.NewRepository(store)

	source, err := warehouse.NewSource(cfg.WarehouseConnection())
	if err != nil {
		logger.Error("failed to configure warehouse source", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer source.Close()
	if err := source.TestConnection(ctx); err != nil {
		logger.Warn("warehouse not reachable at startup", slog.String("error", err.Error()))
	}

	publisher, err := bus.NewPublisher(cfg.NATSURL)
	if err != nil {
		logger.Error("failed to connect to nats", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer publisher.Close()

	sink := &orchestrator.NotifyingSink{Store: repo, Bus: publisher, Logger: logger}
	eng := engine.New(source, repo, repo, sink)
	orch := orchestrator.New(eng, source, repo, execlog.New(repo), logger)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Schedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := orch.RunAll(runCtx); err != nil {
			logger.Error("scheduled pass failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		logger.Error("invalid schedule", slog.String("schedule", cfg.Schedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(orch, repo, logger, 5*time.Second)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.AdminPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Minute, // POST /run holds the connection for a full pass
		IdleTimeout:  30 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	logger.Info("sales health monitor listening",
		slog.String("port", cfg.AdminPort),
		slog.String("schedule", cfg.Schedule),
		slog.String("warehouse", cfg.Warehouse.Type))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("error", err.Error()))
	}
}
