// Package main provides a CLI tool for seeding the catalog with sample parts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"hwcatalog/internal/config"
	"hwcatalog/internal/core/apperror"
	"hwcatalog/internal/domain/hardware"
	"hwcatalog/internal/infrastructure/storage/postgres"
	"hwcatalog/internal/infrastructure/storage/postgres/hardware_repo"
	"hwcatalog/pkg/logger"
)

func main() {
	file := flag.String("file", "seed.yaml", "YAML file with a top-level parts list")
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
		Service:     "hwcatalog-seed",
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	parts, err := loadParts(*file)
	if err != nil {
		log.Fatalw("failed to read seed file", "file", *file, "error", err)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	reader := hardware.NewReadService(hardware_repo.NewQueryBuilder(txManager), log)
	writer := hardware.NewWriteService(hardware.WriteServiceConfig{
		Repo:      hardware_repo.NewRepo(txManager),
		TxManager: txManager,
		Reader:    reader,
		Logger:    log,
	})

	created, skipped := 0, 0
	for _, rec := range parts {
		id, err := writer.Create(ctx, rec)
		switch {
		case err == nil:
			created++
			log.Infow("part created", "id", id, "name", rec.Name)
		case apperror.IsNameExists(err):
			skipped++
			log.Infow("part already exists", "name", rec.Name)
		default:
			log.Fatalw("failed to create part", "name", rec.Name, "error", err)
		}
	}

	log.Infow("seeding completed successfully", "created", created, "skipped", skipped)
}
