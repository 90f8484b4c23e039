package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/internal/core/usecases"
)

// readPlaces parses label,latitude,longitude rows. A first row whose
// coordinates are not numeric is treated as a header.
func readPlaces(r io.Reader) ([]domain.Place, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var places []domain.Place
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return places, nil
		}
		if err != nil {
			return nil, err
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if latErr != nil || lonErr != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: latitude and longitude must be numbers", line)
		}

		places = append(places, domain.Place{
			Label:    rec[0],
			Location: domain.GeoPoint{Lat: lat, Lon: lon},
		})
	}
}

// encodable keeps the places that can be registered, filling in their
// DIGIPIN, and returns the rest with the reason each was rejected.
func encodable(places []domain.Place) (valid []domain.Place, rejected []rejection) {
	valid = make([]domain.Place, 0, len(places))
	for _, p := range places {
		enc, err := usecases.NewPlace(p.Label, p.Location.Lat, p.Location.Lon)
		if err != nil {
			rejected = append(rejected, rejection{Place: p, Err: err})
			continue
		}
		valid = append(valid, *enc)
	}
	return valid, rejected
}

type rejection struct {
	Place domain.Place
	Err   error
}

// chunk splits places into consecutive batches of at most size.
func chunk(places []domain.Place, size int) [][]domain.Place {
	var out [][]domain.Place
	for size < len(places) {
		places, out = places[size:], append(out, places[:size:size])
	}
	if len(places) > 0 {
		out = append(out, places)
	}
	return out
}
