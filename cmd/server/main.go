// Package main is the entry point for the hardware catalog API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hwcatalog/internal/config"
	"hwcatalog/internal/domain/hardware"
	v1 "hwcatalog/internal/infrastructure/http/v1"
	"hwcatalog/internal/infrastructure/storage/postgres"
	"hwcatalog/internal/infrastructure/storage/postgres/hardware_repo"
	"hwcatalog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
		Service:     "hwcatalog",
		Env:         cfg.App.Env,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting hwcatalog server", "config", cfg.String())

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.ConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.IdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txOpts := postgres.DefaultTxOptions()
	txOpts.StatementTimeout = cfg.Database.StatementTimeout
	txManager := postgres.NewTxManagerFromRawPool(pool.Pool, txOpts)

	// --- Notifications ---
	notifier, closeNotifier, err := newNotifier(ctx, cfg.NATS, log)
	if err != nil {
		log.Fatalw("failed to set up notifications", "error", err)
	}
	defer closeNotifier()

	// --- Services ---
	reader := hardware.NewReadService(hardware_repo.NewQueryBuilder(txManager), log)
	writer := hardware.NewWriteService(hardware.WriteServiceConfig{
		Repo:          hardware_repo.NewRepo(txManager),
		TxManager:     txManager,
		Reader:        reader,
		Notifier:      notifier,
		Logger:        log,
		NotifyTimeout: cfg.Notify.Timeout,
	})

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		Reader:      reader,
		Writer:      writer,
		DB:          pool,
		Logger:      log,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	// Let pending notifications finish before their connection closes.
	writer.Wait()

	log.Info("server stopped")
}
