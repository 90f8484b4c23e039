//go:build integration
// +build integration

package natsadapter_test

import (
	"context"
	"os"
	"testing"
	"time"

	natsadapter "github.com/samirrijal/digipin/internal/adapters/nats"
	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
)

func natsURL() string {
	if u := os.Getenv("DIGIPIN_NATS_URL"); u != "" {
		return u
	}
	return "nats://localhost:4222"
}

func TestPublishFix_ReachesCellSubscriber(t *testing.T) {
	pub, err := natsadapter.NewPublisher(natsURL())
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(natsURL())
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	defer sub.Close()

	got := make(chan *domain.PositionFix, 1)
	unsubscribe, err := sub.SubscribeCell(context.Background(), "4FK", func(ctx context.Context, fix *domain.PositionFix) error {
		got <- fix
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	fix := &domain.PositionFix{DeviceID: "truck-42", Location: domain.GeoPoint{Lat: 19.0760, Lon: 72.8777}, DIGIPIN: "4FK-595-8823"}
	if err := pub.PublishFix(context.Background(), fix); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case f := <-got:
		if f.DeviceID != "truck-42" {
			t.Errorf("unexpected fix %+v", f)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fix")
	}
}

func TestRawFix_AnnotatedAndRelayedToCell(t *testing.T) {
	pub, err := natsadapter.NewPublisher(natsURL())
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(natsURL())
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	defer sub.Close()

	ctx := context.Background()
	tracking := usecases.NewTrackingService(pub)
	if err := sub.SubscribeRawFixes(ctx, tracking.Ingest); err != nil {
		t.Fatalf("subscribe raw: %v", err)
	}

	got := make(chan *domain.PositionFix, 1)
	unsubscribe, err := sub.SubscribeCell(ctx, "39J", func(ctx context.Context, fix *domain.PositionFix) error {
		if fix.DeviceID == "courier-7" {
			got <- fix
		}
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe cell: %v", err)
	}
	defer unsubscribe()

	raw := &domain.PositionFix{DeviceID: "courier-7", Location: domain.GeoPoint{Lat: 28.6139, Lon: 77.2090}}
	if err := pub.PublishRawFix(ctx, raw); err != nil {
		t.Fatalf("publish raw: %v", err)
	}

	select {
	case f := <-got:
		if f.DIGIPIN != "39J-438-TJC7" {
			t.Errorf("expected annotated code 39J-438-TJC7, got %q", f.DIGIPIN)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for annotated fix")
	}
}
