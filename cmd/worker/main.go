package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/digipin/internal/adapters/nats"
	"github.com/samirrijal/digipin/internal/adapters/postgres"
	"github.com/samirrijal/digipin/internal/adapters/valkey"
	"github.com/samirrijal/digipin/internal/pkg/config"
	"github.com/samirrijal/digipin/internal/pkg/logging"
	"github.com/samirrijal/digipin/internal/workflows"
)

func main() {
	cfg, err := config.Load("digipin-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.LevelFromEnv(), "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	acts := &workflows.PlaceActivities{Places: postgres.NewPlaceRepo(db)}

	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		acts.Cache = cache
	}

	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, events will only be logged", "error", err)
	} else {
		defer pub.Close()
		acts.Publisher = pub
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.PlaceRegistrationWorkflow)
	w.RegisterActivity(acts)

	slog.Info("place registration worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
