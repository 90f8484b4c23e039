package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/samirrijal/digipin/internal/adapters/postgres"
	"github.com/samirrijal/digipin/internal/pkg/config"
	"github.com/samirrijal/digipin/internal/pkg/logging"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down> [dir]")
	}
	dir := migrationsDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	cfg, err := config.Load("digipin-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(logging.LevelFromEnv(), "text")

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	migrations, err := postgres.LoadMigrations(dir)
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	switch os.Args[1] {
	case "up":
		applied, err := db.MigrateUp(ctx, migrations)
		if err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		for _, v := range applied {
			fmt.Printf("OK  %s\n", v)
		}
		slog.Info("all migrations applied", "new", len(applied))
	case "down":
		version, err := db.MigrateDown(ctx, migrations)
		if err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		if version == "" {
			slog.Info("nothing to roll back")
			return
		}
		fmt.Printf("DOWN  %s\n", version)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
