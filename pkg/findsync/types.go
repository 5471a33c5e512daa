// Package findsync is the client-side data layer for the FindTogether API:
// a REST client, concurrent address enrichment, signed-URL caching, and the
// map/list presentation state.
package findsync

import (
	"math"
	"time"
)

// Location is a coordinate pair as carried on the wire.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite numbers. Invalid
// locations are never rendered and never sent to the geocoder.
func (l Location) Valid() bool {
	return !math.IsNaN(l.Lat) && !math.IsInf(l.Lat, 0) &&
		!math.IsNaN(l.Lng) && !math.IsInf(l.Lng, 0)
}

// Post mirrors the server's wire format plus the client-only
// geocodedAddress enrichment field.
type Post struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Features         string    `json:"features"`
	LastSeenTime     string    `json:"lastSeenTime"`
	LastSeenLocation Location  `json:"lastSeenLocation"`
	ImageName        string    `json:"imageUrl,omitempty"`
	AuthorID         string    `json:"authorId"`
	AuthorName       string    `json:"authorName,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	Reports          []Report  `json:"reports"`

	GeocodedAddress string `json:"geocodedAddress,omitempty"`
}

// Report mirrors the server's wire format plus the client-only enrichment.
type Report struct {
	ID          string    `json:"id"`
	PostID      *string   `json:"postId,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Time        string    `json:"time"`
	Description string    `json:"description"`
	ImageName   string    `json:"imageUrl,omitempty"`
	AuthorName  string    `json:"authorName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	GeocodedAddress string `json:"geocodedAddress,omitempty"`
}

// Location returns the report's coordinates.
func (r Report) Location() Location {
	return Location{Lat: r.Lat, Lng: r.Lng}
}

// User mirrors the server's account payload.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email"`
}

// ReverseGeocodeResult is the provider payload forwarded by the API.
type ReverseGeocodeResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Country       string `json:"country"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Neighbourhood string `json:"neighbourhood"`
		Road          string `json:"road"`
	} `json:"address"`
}
