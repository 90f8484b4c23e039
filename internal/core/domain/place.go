package domain

import "time"

// Place is a named location registered together with its DIGIPIN.
type Place struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Location  GeoPoint  `json:"location"`
	DIGIPIN   string    `json:"digipin"`
	Distance  *float64  `json:"distance,omitempty"` // computed field
	CreatedAt time.Time `json:"created_at"`
}

// PlaceEvent is published when a place is registered or removed.
type PlaceEvent struct {
	Type  string `json:"type"`
	Place Place  `json:"place"`
}

const (
	PlaceRegistered = "registered"
	PlaceDeleted    = "deleted"
)

// PositionFix is a device position annotated with the DIGIPIN of the cell it
// falls in.
type PositionFix struct {
	DeviceID   string    `json:"device_id"`
	Location   GeoPoint  `json:"location"`
	DIGIPIN    string    `json:"digipin,omitempty"`
	Accuracy   float64   `json:"accuracy,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
