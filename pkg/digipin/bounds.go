package digipin

import "math"

// Bounds is a latitude/longitude rectangle, edges inclusive.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

var (
	// Region is the domain accepted by the encoder.
	Region = Bounds{MinLat: 6.0, MaxLat: 38.0, MinLon: 68.0, MaxLon: 98.0}

	// Grid is the root box the subdivision starts from. It is the published
	// DIGIPIN square and strictly contains Region.
	Grid = Bounds{MinLat: 2.5, MaxLat: 38.5, MinLon: 63.5, MaxLon: 99.5}
)

// Contains reports whether the point lies inside b, edges included. NaN is
// never contained.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Center returns the midpoint of b.
func (b Bounds) Center() Coordinate {
	return Coordinate{
		Latitude:  (b.MinLat + b.MaxLat) / 2,
		Longitude: (b.MinLon + b.MaxLon) / 2,
	}
}

// Height is the latitude span of b in degrees.
func (b Bounds) Height() float64 { return b.MaxLat - b.MinLat }

// Width is the longitude span of b in degrees.
func (b Bounds) Width() float64 { return b.MaxLon - b.MinLon }

// Cell returns the sub-box of b labelled (row, col). Row 0 is the northern
// band, col 0 the western one.
func (b Bounds) Cell(row, col int) Bounds {
	bandHeight := (b.MaxLat - b.MinLat) / GridSize
	bandWidth := (b.MaxLon - b.MinLon) / GridSize
	latIndex := GridSize - 1 - row

	minLat := b.MinLat + float64(latIndex)*bandHeight
	minLon := b.MinLon + float64(col)*bandWidth
	return Bounds{
		MinLat: minLat,
		MaxLat: minLat + bandHeight,
		MinLon: minLon,
		MaxLon: minLon + bandWidth,
	}
}

// Subdivide finds the sub-box of b that contains the point and returns its
// (row, col) label together with the narrowed box. Points on the upper edge
// of b fall into the last band.
func (b Bounds) Subdivide(lat, lon float64) (row, col int, cell Bounds) {
	bandHeight := (b.MaxLat - b.MinLat) / GridSize
	bandWidth := (b.MaxLon - b.MinLon) / GridSize

	latIndex := bandIndex((lat - b.MinLat) / bandHeight)
	lonIndex := bandIndex((lon - b.MinLon) / bandWidth)

	row = GridSize - 1 - latIndex
	col = lonIndex
	return row, col, b.Cell(row, col)
}

func bandIndex(f float64) int {
	i := int(math.Floor(f))
	if i < 0 {
		return 0
	}
	if i > GridSize-1 {
		return GridSize - 1
	}
	return i
}
