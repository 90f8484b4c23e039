package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/ports"
	"github.com/samirrijal/digipin/internal/pkg/metrics"
	"github.com/samirrijal/digipin/pkg/digipin"
)

// TrackingService annotates device position fixes with their DIGIPIN and
// republishes them under the cell's subject.
type TrackingService struct {
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(publisher ports.EventPublisher) *TrackingService {
	return &TrackingService{publisher: publisher, now: time.Now}
}

// Ingest encodes fix and publishes it. Fixes outside the region are rejected
// with the codec's range error.
func (s *TrackingService) Ingest(ctx context.Context, fix *domain.PositionFix) error {
	fix.DeviceID = strings.TrimSpace(fix.DeviceID)
	if fix.DeviceID == "" {
		metrics.FixesIngested.WithLabelValues("rejected").Inc()
		return fmt.Errorf("device_id is required: %w", domain.ErrInvalidInput)
	}

	code, err := digipin.Encode(fix.Location.Lat, fix.Location.Lon)
	if err != nil {
		metrics.FixesIngested.WithLabelValues("rejected").Inc()
		return err
	}
	fix.DIGIPIN = code
	if fix.RecordedAt.IsZero() {
		fix.RecordedAt = s.now().UTC()
	}

	if err := s.publisher.PublishFix(ctx, fix); err != nil {
		metrics.FixesIngested.WithLabelValues("error").Inc()
		return fmt.Errorf("publish fix: %w", err)
	}
	metrics.FixesIngested.WithLabelValues("ok").Inc()
	return nil
}
