package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
	"github.com/samirrijal/digipin/pkg/digipin"
)

func TestTrackingService_Ingest(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(pub)

	fix := &domain.PositionFix{
		DeviceID: "truck-42",
		Location: domain.GeoPoint{Lat: 19.0760, Lon: 72.8777},
	}
	if err := svc.Ingest(context.Background(), fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.DIGIPIN != "4FK-595-8823" {
		t.Errorf("expected 4FK-595-8823, got %s", fix.DIGIPIN)
	}
	if fix.RecordedAt.IsZero() {
		t.Error("expected RecordedAt to be stamped")
	}
	if len(pub.fixes) != 1 {
		t.Fatalf("expected 1 published fix, got %d", len(pub.fixes))
	}
}

func TestTrackingService_Ingest_KeepsTimestamp(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(pub)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	fix := &domain.PositionFix{DeviceID: "d", Location: domain.GeoPoint{Lat: 12.9716, Lon: 77.5946}, RecordedAt: at}
	if err := svc.Ingest(context.Background(), fix); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fix.RecordedAt.Equal(at) {
		t.Errorf("timestamp was overwritten: %v", fix.RecordedAt)
	}
}

func TestTrackingService_Ingest_Rejects(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewTrackingService(pub)

	err := svc.Ingest(context.Background(), &domain.PositionFix{Location: domain.GeoPoint{Lat: 19, Lon: 72}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid input for missing device, got %v", err)
	}

	err = svc.Ingest(context.Background(), &domain.PositionFix{DeviceID: "d", Location: domain.GeoPoint{Lat: 51.5, Lon: -0.1}})
	if !errors.Is(err, digipin.ErrLatitudeOutOfRange) {
		t.Errorf("expected latitude error, got %v", err)
	}
	if len(pub.fixes) != 0 {
		t.Errorf("rejected fixes must not be published")
	}
}

func TestTrackingService_Ingest_PublishError(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewTrackingService(pub)

	err := svc.Ingest(context.Background(), &domain.PositionFix{DeviceID: "d", Location: domain.GeoPoint{Lat: 19, Lon: 72}})
	if err == nil {
		t.Fatal("expected error")
	}
}
