package domain

import "github.com/samirrijal/digipin/pkg/digipin"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsFrom converts a codec cell into its API representation.
func BoundsFrom(b digipin.Bounds) Bounds {
	return Bounds{MinLat: b.MinLat, MinLon: b.MinLon, MaxLat: b.MaxLat, MaxLon: b.MaxLon}
}

// PointFrom converts a codec coordinate into a GeoPoint.
func PointFrom(c digipin.Coordinate) GeoPoint {
	return GeoPoint{Lat: c.Latitude, Lon: c.Longitude}
}

// Encoding is the full result of encoding a point: the code in both
// renderings, the cell it names, and the cell center.
type Encoding struct {
	DIGIPIN string   `json:"digipin"`
	Compact string   `json:"compact"`
	Bounds  Bounds   `json:"bounds"`
	Center  GeoPoint `json:"center"`
	// ErrorMeters is the distance between the input point and the cell center.
	ErrorMeters float64 `json:"error_meters"`
	// Approximate ground size of the cell.
	CellHeightMeters float64 `json:"cell_height_meters"`
	CellWidthMeters  float64 `json:"cell_width_meters"`
}

// Decoding is the result of decoding a code.
type Decoding struct {
	DIGIPIN string   `json:"digipin"`
	Center  GeoPoint `json:"center"`
	Bounds  Bounds   `json:"bounds"`
}

// BatchResult is the per-item outcome of a batch encode. Exactly one of
// Encoding and Error is set.
type BatchResult struct {
	Index     int       `json:"index"`
	Encoding  *Encoding `json:"encoding,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
}
