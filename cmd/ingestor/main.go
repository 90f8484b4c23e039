package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/digipin/internal/adapters/postgres"
	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
	"github.com/samirrijal/digipin/internal/pkg/config"
	"github.com/samirrijal/digipin/internal/pkg/logging"
	"github.com/samirrijal/digipin/internal/workflows"
)

const (
	batchSize   = 500
	concurrency = 4
)

// usage: ingestor <places.csv> [workflow]
//
// With "workflow", each row is registered through the Temporal
// PlaceRegistrationWorkflow instead of batch upserts.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ingestor <places.csv> [workflow]")
	}

	cfg, err := config.Load("digipin-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.LevelFromEnv(), "json")

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	places, err := readPlaces(f)
	f.Close()
	if err != nil {
		log.Fatalf("parse %s: %v", os.Args[1], err)
	}
	slog.Info("DIGIPIN place ingestor", "rows", len(places), "file", os.Args[1])

	ctx := context.Background()
	start := time.Now()

	var failed int64
	if len(os.Args) > 2 && os.Args[2] == "workflow" {
		failed = viaWorkflow(ctx, cfg, places)
	} else {
		failed = viaBatch(ctx, cfg, places)
	}

	slog.Info("ingestion complete",
		"rows", len(places),
		"failed", failed,
		"elapsed", time.Since(start).String(),
	)
}

// viaBatch upserts places in batches with bounded concurrency and returns the
// number of rows that could not be stored. Rows that cannot be encoded are
// skipped up front so they do not fail the batch they would land in.
func viaBatch(ctx context.Context, cfg *config.Config, places []domain.Place) int64 {
	places, rejected := encodable(places)
	for _, r := range rejected {
		slog.Warn("skipping row", "label", r.Place.Label,
			"lat", r.Place.Location.Lat, "lon", r.Place.Location.Lon, "error", r.Err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), concurrency)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	svc := usecases.NewPlaceService(postgres.NewPlaceRepo(db), nil, nil, usecases.CacheTTL{})

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	sem := make(chan struct{}, concurrency)

	for i, batch := range chunk(places, batchSize) {
		wg.Add(1)
		go func(n int, b []domain.Place) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := svc.RegisterBatch(ctx, b); err != nil {
				slog.Error("batch failed", "batch", n, "size", len(b), "error", err)
				failed.Add(int64(len(b)))
				return
			}
			slog.Debug("batch stored", "batch", n, "size", len(b))
		}(i, batch)
	}

	wg.Wait()
	return failed.Load() + int64(len(rejected))
}

// viaWorkflow registers each place through Temporal with bounded concurrency.
func viaWorkflow(ctx context.Context, cfg *config.Config, places []domain.Place) int64 {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	sem := make(chan struct{}, concurrency)

	for _, p := range places {
		wg.Add(1)
		go func(p domain.Place) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			placed, err := workflows.StartRegistration(ctx, c, cfg.Temporal.TaskQueue, workflows.RegistrationInput{
				Label: p.Label, Lat: p.Location.Lat, Lon: p.Location.Lon,
			})
			if err != nil {
				slog.Warn("registration failed", "label", p.Label, "error", err)
				failed.Add(1)
				return
			}
			slog.Debug("registered", "id", placed.ID, "digipin", placed.DIGIPIN)
		}(p)
	}

	wg.Wait()
	return failed.Load()
}
