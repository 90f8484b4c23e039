package config_test

import (
	"strings"
	"testing"

	"github.com/samirrijal/digipin/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("digipin-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "digipin-test" {
		t.Errorf("expected service name digipin-test, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Server.MaxBatch != 1000 {
		t.Errorf("expected max batch 1000, got %d", cfg.Server.MaxBatch)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DIGIPIN_SERVER_PORT", "9090")
	t.Setenv("DIGIPIN_DATABASE_HOST", "db.internal")

	cfg, err := config.Load("digipin-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected host db.internal, got %s", cfg.Database.Host)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DIGIPIN_SERVER_PORT", "70000")

	_, err := config.Load("digipin-test")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected server.port in error, got %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero config")
	}
	for _, want := range []string{"server.port", "database.host", "nats.url", "valkey.addr", "temporal.task_queue"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error: %v", want, err)
		}
	}
}

func TestDSN(t *testing.T) {
	d := config.DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "n", SSLMode: "disable"}
	if got := d.DSN(); got != "postgres://u:p@h:5432/n?sslmode=disable" {
		t.Errorf("unexpected DSN %s", got)
	}
}
