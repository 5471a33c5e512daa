package findsync

// MarkerKind distinguishes last-seen markers from sighting markers.
type MarkerKind string

const (
	MarkerLastSeen MarkerKind = "lastSeen"
	MarkerSighting MarkerKind = "sighting"
)

// Marker is one renderable map pin.
type Marker struct {
	Kind     MarkerKind
	PostID   string
	ReportID string
	Location Location
	Label    string
	Address  string
}

// Trail is the ordered sighting path for one post: the last-seen point
// followed by its reports in append order.
type Trail struct {
	PostID string
	Points []Location
}

// IntentKind enumerates the actions a view can report back up.
type IntentKind string

const (
	IntentSelectPost   IntentKind = "selectPost"
	IntentSubmitReport IntentKind = "submitReport"
	IntentDeletePost   IntentKind = "deletePost"
)

// Intent is a user action raised by the map or list view.
type Intent struct {
	Kind   IntentKind
	PostID string
}

// Markers builds map pins for every post and sighting with a renderable
// location. Invalid locations produce no marker.
func Markers(posts []Post) []Marker {
	var markers []Marker
	for _, post := range posts {
		if post.LastSeenLocation.Valid() {
			markers = append(markers, Marker{
				Kind:     MarkerLastSeen,
				PostID:   post.ID,
				Location: post.LastSeenLocation,
				Label:    post.Name,
				Address:  post.GeocodedAddress,
			})
		}
		for _, report := range post.Reports {
			loc := report.Location()
			if !loc.Valid() {
				continue
			}
			markers = append(markers, Marker{
				Kind:     MarkerSighting,
				PostID:   post.ID,
				ReportID: report.ID,
				Location: loc,
				Label:    report.Description,
				Address:  report.GeocodedAddress,
			})
		}
	}
	return markers
}

// Trails builds the sighting path per post, in report append order, skipping
// points that cannot be rendered. Posts with no renderable point yield no
// trail.
func Trails(posts []Post) []Trail {
	var trails []Trail
	for _, post := range posts {
		var points []Location
		if post.LastSeenLocation.Valid() {
			points = append(points, post.LastSeenLocation)
		}
		for _, report := range post.Reports {
			if loc := report.Location(); loc.Valid() {
				points = append(points, loc)
			}
		}
		if len(points) > 0 {
			trails = append(trails, Trail{PostID: post.ID, Points: points})
		}
	}
	return trails
}

// ListRow is one entry in the post list view.
type ListRow struct {
	PostID       string
	Name         string
	LastSeenTime string
	Address      string
	ImageName    string
	ReportCount  int
}

// ListRows builds the list view in the order the server returns posts,
// newest first.
func ListRows(posts []Post) []ListRow {
	rows := make([]ListRow, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, ListRow{
			PostID:       post.ID,
			Name:         post.Name,
			LastSeenTime: post.LastSeenTime,
			Address:      post.GeocodedAddress,
			ImageName:    post.ImageName,
			ReportCount:  len(post.Reports),
		})
	}
	return rows
}
