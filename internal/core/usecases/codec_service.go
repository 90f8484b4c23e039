package usecases

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/pkg/geospatial"
	"github.com/samirrijal/digipin/internal/pkg/metrics"
	"github.com/samirrijal/digipin/internal/pkg/telemetry"
	"github.com/samirrijal/digipin/pkg/digipin"
)

// DefaultMaxBatch is the batch limit used when none is configured.
const DefaultMaxBatch = 1000

// CodecService exposes the DIGIPIN codec to the transport adapters.
type CodecService struct {
	maxBatch int
}

// NewCodecService creates a new CodecService.
func NewCodecService(maxBatch int) *CodecService {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &CodecService{maxBatch: maxBatch}
}

// MaxBatch returns the largest batch EncodeBatch accepts.
func (s *CodecService) MaxBatch() int { return s.maxBatch }

// Encode returns the DIGIPIN of a point together with its cell.
func (s *CodecService) Encode(ctx context.Context, lat, lon float64) (*domain.Encoding, error) {
	_, span := telemetry.Tracer().Start(ctx, "codec.encode")
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", lat), attribute.Float64("lon", lon))

	enc, err := encode(lat, lon)
	metrics.ObserveCodec("encode", err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("digipin", enc.DIGIPIN))
	return enc, nil
}

func encode(lat, lon float64) (*domain.Encoding, error) {
	code, err := digipin.EncodeCode(lat, lon)
	if err != nil {
		return nil, err
	}
	center := code.Center()
	cell := code.Bounds()
	height, width := geospatial.CellSizeMeters(center.Latitude, cell.Height(), cell.Width())
	return &domain.Encoding{
		DIGIPIN:          code.String(),
		Compact:          code.Compact(),
		Bounds:           domain.BoundsFrom(cell),
		Center:           domain.PointFrom(center),
		ErrorMeters:      geospatial.Haversine(lat, lon, center.Latitude, center.Longitude),
		CellHeightMeters: height,
		CellWidthMeters:  width,
	}, nil
}

// Decode returns the center and cell of a full DIGIPIN.
func (s *CodecService) Decode(ctx context.Context, text string) (*domain.Decoding, error) {
	_, span := telemetry.Tracer().Start(ctx, "codec.decode")
	defer span.End()

	code, err := digipin.Parse(text)
	metrics.ObserveCodec("decode", err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &domain.Decoding{
		DIGIPIN: code.String(),
		Center:  domain.PointFrom(code.Center()),
		Bounds:  domain.BoundsFrom(code.Bounds()),
	}, nil
}

// Bounds returns the cell named by a full code or by a prefix of one to ten
// symbols.
func (s *CodecService) Bounds(ctx context.Context, text string) (*domain.Bounds, error) {
	_, span := telemetry.Tracer().Start(ctx, "codec.bounds")
	defer span.End()

	b, err := digipin.PrefixBounds(text)
	metrics.ObserveCodec("bounds", err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	out := domain.BoundsFrom(b)
	return &out, nil
}

// EncodeBatch encodes each point independently. A failing point does not fail
// the batch; its result carries the error instead.
func (s *CodecService) EncodeBatch(ctx context.Context, points []domain.GeoPoint) ([]domain.BatchResult, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("batch must not be empty: %w", domain.ErrInvalidInput)
	}
	if len(points) > s.maxBatch {
		return nil, fmt.Errorf("batch of %d exceeds limit of %d: %w", len(points), s.maxBatch, domain.ErrInvalidInput)
	}

	_, span := telemetry.Tracer().Start(ctx, "codec.encode_batch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(points)))
	metrics.BatchSize.Observe(float64(len(points)))

	results := make([]domain.BatchResult, len(points))
	for i, p := range points {
		results[i].Index = i
		enc, err := encode(p.Lat, p.Lon)
		metrics.ObserveCodec("encode", err)
		if err != nil {
			results[i].Error = err.Error()
			results[i].ErrorCode = domain.ErrorCode(err)
			continue
		}
		results[i].Encoding = enc
	}
	return results, nil
}
