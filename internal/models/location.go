package models

import (
	"encoding/json"
	"math"
)

// Location is a WGS84 coordinate pair. It is embedded into posts and carried
// on reports; clients render markers from it, so a stored location must
// always be finite.
type Location struct {
	Lat float64 `gorm:"not null" json:"lat"`
	Lng float64 `gorm:"not null" json:"lng"`
}

// Valid reports whether both coordinates are finite numbers.
func (l Location) Valid() bool {
	return !math.IsNaN(l.Lat) && !math.IsInf(l.Lat, 0) &&
		!math.IsNaN(l.Lng) && !math.IsInf(l.Lng, 0)
}

// ParseLocation decodes a JSON-encoded {"lat":..,"lng":..} string as sent in
// multipart form fields. Missing or non-finite coordinates are rejected
// rather than defaulted.
func ParseLocation(raw string) (Location, error) {
	var payload struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Location{}, NewValidationError("lastSeenLocation must be a JSON object with lat and lng")
	}
	if payload.Lat == nil || payload.Lng == nil {
		return Location{}, NewValidationError("lastSeenLocation requires both lat and lng")
	}
	loc := Location{Lat: *payload.Lat, Lng: *payload.Lng}
	if !loc.Valid() {
		return Location{}, NewValidationError("lastSeenLocation coordinates must be finite numbers")
	}
	return loc, nil
}
