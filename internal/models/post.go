// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a missing-subject listing with a last-seen location/time.
// The wire format (camelCase) is fixed; browser clients depend on it.
type Post struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Features string `gorm:"type:text" json:"features"`
	// LastSeenTime is the client-supplied ISO-8601 string, stored verbatim.
	LastSeenTime     string   `gorm:"not null" json:"lastSeenTime"`
	LastSeenLocation Location `gorm:"embedded;embeddedPrefix:last_seen_" json:"lastSeenLocation"`
	// ImageName is the storage object name, never a URL. Clients exchange it
	// for a signed read URL per access.
	ImageName  string    `gorm:"column:image_name" json:"imageUrl,omitempty"`
	AuthorID   string    `gorm:"size:36;not null;index" json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	// Reports only grows; order is append order (seq), not sighting time.
	Reports []Report `gorm:"foreignKey:PostID;references:ID" json:"reports"`
}

// Report represents a sighting/tip. A report attached to a post lives and
// dies with it; standalone reports (nil PostID) feed the legacy heat-map view.
type Report struct {
	ID     string  `gorm:"primaryKey;size:36" json:"id"`
	PostID *string `gorm:"size:36;index" json:"postId,omitempty"`
	Lat    float64 `gorm:"not null" json:"lat"`
	Lng    float64 `gorm:"not null" json:"lng"`
	// Time is the client-supplied sighting time (ISO-8601). It is not
	// validated against the parent post's lastSeenTime; a sighting may
	// predate the post.
	Time        string `gorm:"not null" json:"time"`
	Description string `gorm:"type:text" json:"description"`
	ImageName   string `gorm:"column:image_name" json:"imageUrl,omitempty"`
	AuthorName  string `json:"authorName,omitempty"`
	// Seq is the per-post append counter; responses order by it ascending.
	Seq       int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Location returns the report's coordinates as a Location value.
func (r Report) Location() Location {
	return Location{Lat: r.Lat, Lng: r.Lng}
}
