package main

import (
	"context"

	"hwcatalog/internal/config"
	"hwcatalog/internal/domain/hardware"
	"hwcatalog/internal/infrastructure/notify"
	"hwcatalog/pkg/logger"
)

// newNotifier returns the NATS notifier when enabled, else the log notifier.
// The returned func releases the connection.
func newNotifier(ctx context.Context, cfg config.NATSConfig, log *logger.Logger) (hardware.Notifier, func(), error) {
	if !cfg.Enabled {
		log.Info("NATS disabled, notifications are logged")
		return notify.NewLogNotifier(log), func() {}, nil
	}

	nc, err := notify.NewClient(cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}

	js, err := notify.NewJetStream(nc)
	if err != nil {
		return nil, nil, err
	}

	if err := notify.EnsureStream(ctx, js, cfg.Stream, cfg.Subject); err != nil {
		nc.Close()
		return nil, nil, err
	}

	log.Infow("NATS notifications enabled", "url", cfg.URL, "subject", cfg.Subject)
	return notify.NewNATSNotifier(js, cfg.Subject), func() { _ = nc.Drain() }, nil
}
