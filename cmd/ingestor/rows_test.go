package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/digipin/internal/core/domain"
	"github.com/samirrijal/digipin/pkg/digipin"
)

func TestReadPlaces_WithHeader(t *testing.T) {
	in := "label,latitude,longitude\nIndia Gate, 28.6129, 77.2295\nCharminar,17.3616,78.4747\n"

	places, err := readPlaces(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "India Gate", places[0].Label)
	assert.Equal(t, 28.6129, places[0].Location.Lat)
	assert.Equal(t, 78.4747, places[1].Location.Lon)
}

func TestReadPlaces_NoHeader(t *testing.T) {
	places, err := readPlaces(strings.NewReader("Charminar,17.3616,78.4747\n"))
	require.NoError(t, err)
	assert.Len(t, places, 1)
}

func TestReadPlaces_BadRow(t *testing.T) {
	_, err := readPlaces(strings.NewReader("a,1,2\nb,north,2\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = readPlaces(strings.NewReader("a,1\n"))
	assert.Error(t, err)
}

func TestChunk(t *testing.T) {
	places := make([]domain.Place, 7)
	batches := chunk(places, 3)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[2], 1)

	assert.Empty(t, chunk(nil, 3))
}

func TestEncodable_SkipsBadRows(t *testing.T) {
	places := []domain.Place{
		{Label: "Connaught Place", Location: domain.GeoPoint{Lat: 28.6139, Lon: 77.2090}},
		{Label: "London", Location: domain.GeoPoint{Lat: 51.5074, Lon: -0.1278}},
		{Label: "  ", Location: domain.GeoPoint{Lat: 19.0760, Lon: 72.8777}},
		{Label: "Gateway of India", Location: domain.GeoPoint{Lat: 18.9220, Lon: 72.8347}},
	}

	valid, rejected := encodable(places)
	require.Len(t, valid, 2)
	assert.Equal(t, "39J-438-TJC7", valid[0].DIGIPIN)
	assert.Equal(t, "Gateway of India", valid[1].Label)
	assert.NotEmpty(t, valid[1].DIGIPIN)

	require.Len(t, rejected, 2)
	assert.ErrorIs(t, rejected[0].Err, digipin.ErrLatitudeOutOfRange)
	assert.ErrorIs(t, rejected[1].Err, domain.ErrInvalidInput)
}
