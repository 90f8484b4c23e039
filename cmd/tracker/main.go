package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/digipin/internal/adapters/nats"
	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
	"github.com/samirrijal/digipin/internal/pkg/config"
	"github.com/samirrijal/digipin/internal/pkg/logging"
	"github.com/samirrijal/digipin/internal/pkg/telemetry"
)

// The tracker consumes raw device fixes, annotates each with its DIGIPIN and
// republishes it under the cell's subject for WebSocket subscribers.
func main() {
	cfg, err := config.Load("digipin-tracker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.LevelFromEnv(), "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// NATS
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriberFromConn(pub.Conn())
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	tracking := usecases.NewTrackingService(pub)

	err = sub.SubscribeRawFixes(ctx, func(ctx context.Context, fix *domain.PositionFix) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tracking.Ingest(ctx, fix)
	})
	if err != nil {
		log.Fatalf("subscribe raw fixes: %v", err)
	}
	slog.Info("tracker started", "nats", cfg.NATS.URL)

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down tracker", "signal", sig.String())
	cancel()
}
