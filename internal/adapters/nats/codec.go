package natsadapter

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// Wire layout of a position fix (proto3 compatible):
//
//	message PositionFix {
//	  string device_id   = 1;
//	  double lat         = 2;
//	  double lon         = 3;
//	  string digipin     = 4;
//	  double accuracy    = 5;
//	  int64  recorded_at = 6; // unix nanoseconds
//	}
const (
	fieldDeviceID   protowire.Number = 1
	fieldLat        protowire.Number = 2
	fieldLon        protowire.Number = 3
	fieldDIGIPIN    protowire.Number = 4
	fieldAccuracy   protowire.Number = 5
	fieldRecordedAt protowire.Number = 6
)

var errMalformed = errors.New("malformed position fix")

// MarshalFix encodes a fix in protobuf wire format.
func MarshalFix(f *domain.PositionFix) []byte {
	b := make([]byte, 0, 64)
	if f.DeviceID != "" {
		b = protowire.AppendTag(b, fieldDeviceID, protowire.BytesType)
		b = protowire.AppendString(b, f.DeviceID)
	}
	b = appendDouble(b, fieldLat, f.Location.Lat)
	b = appendDouble(b, fieldLon, f.Location.Lon)
	if f.DIGIPIN != "" {
		b = protowire.AppendTag(b, fieldDIGIPIN, protowire.BytesType)
		b = protowire.AppendString(b, f.DIGIPIN)
	}
	b = appendDouble(b, fieldAccuracy, f.Accuracy)
	if !f.RecordedAt.IsZero() {
		b = protowire.AppendTag(b, fieldRecordedAt, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.RecordedAt.UnixNano()))
	}
	return b
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// UnmarshalFix decodes a fix, skipping unknown fields.
func UnmarshalFix(b []byte) (*domain.PositionFix, error) {
	var f domain.PositionFix
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", errMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case (num == fieldDeviceID || num == fieldDIGIPIN) && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", errMalformed, protowire.ParseError(n))
			}
			if num == fieldDeviceID {
				f.DeviceID = v
			} else {
				f.DIGIPIN = v
			}
			b = b[n:]
		case (num == fieldLat || num == fieldLon || num == fieldAccuracy) && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", errMalformed, protowire.ParseError(n))
			}
			switch num {
			case fieldLat:
				f.Location.Lat = math.Float64frombits(v)
			case fieldLon:
				f.Location.Lon = math.Float64frombits(v)
			default:
				f.Accuracy = math.Float64frombits(v)
			}
			b = b[n:]
		case num == fieldRecordedAt && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", errMalformed, protowire.ParseError(n))
			}
			f.RecordedAt = time.Unix(0, int64(v)).UTC()
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", errMalformed, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return &f, nil
}
