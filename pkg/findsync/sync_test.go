package findsync

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGeocoder records lookups and serves canned results.
type countingGeocoder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *countingGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.err != nil {
		return nil, g.err
	}
	res := &ReverseGeocodeResult{DisplayName: "Seoul"}
	res.Address.Country = "대한민국"
	res.Address.City = "서울특별시"
	return res, nil
}

func (g *countingGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestEnrichFillsAddresses(t *testing.T) {
	geocoder := &countingGeocoder{}
	r := NewReconciler(geocoder)

	posts := []Post{
		{
			ID:               "p1",
			LastSeenLocation: Location{Lat: 37.5, Lng: 127.0},
			Reports: []Report{
				{ID: "r1", Lat: 37.6, Lng: 127.1},
				{ID: "r2", Lat: 37.61, Lng: 127.12},
			},
		},
	}

	require.NoError(t, r.Enrich(context.Background(), posts))

	assert.Equal(t, "대한민국 서울특별시", posts[0].GeocodedAddress)
	assert.Equal(t, "대한민국 서울특별시", posts[0].Reports[0].GeocodedAddress)
	assert.Equal(t, "대한민국 서울특별시", posts[0].Reports[1].GeocodedAddress)
	assert.Equal(t, 3, geocoder.callCount())
}

func TestEnrichIsIdempotent(t *testing.T) {
	geocoder := &countingGeocoder{}
	r := NewReconciler(geocoder)

	posts := []Post{
		{
			ID:               "p1",
			GeocodedAddress:  "이미 확인된 주소",
			LastSeenLocation: Location{Lat: 37.5, Lng: 127.0},
			Reports: []Report{
				{ID: "r1", Lat: 37.6, Lng: 127.1, GeocodedAddress: "이미 확인된 주소"},
			},
		},
	}

	require.NoError(t, r.Enrich(context.Background(), posts))

	// Everything was already enriched; no lookup fires.
	assert.Zero(t, geocoder.callCount())
	assert.Equal(t, "이미 확인된 주소", posts[0].GeocodedAddress)
}

func TestEnrichSkipsInvalidLocations(t *testing.T) {
	geocoder := &countingGeocoder{}
	r := NewReconciler(geocoder)

	posts := []Post{
		{
			ID:               "p1",
			LastSeenLocation: Location{Lat: math.NaN(), Lng: 127.0},
			Reports: []Report{
				{ID: "r1", Lat: math.Inf(1), Lng: 127.1},
			},
		},
	}

	require.NoError(t, r.Enrich(context.Background(), posts))

	// Invalid coordinates never reach the geocoder.
	assert.Zero(t, geocoder.callCount())
	assert.Equal(t, labelInvalidCoordinates, posts[0].GeocodedAddress)
	assert.Equal(t, labelInvalidCoordinates, posts[0].Reports[0].GeocodedAddress)
}

func TestEnrichFallsBackOnLookupFailure(t *testing.T) {
	geocoder := &countingGeocoder{err: errors.New("upstream down")}
	r := NewReconciler(geocoder)

	posts := []Post{
		{ID: "p1", LastSeenLocation: Location{Lat: 37.5, Lng: 127.0}},
	}

	require.NoError(t, r.Enrich(context.Background(), posts))
	assert.Equal(t, "(37.5000, 127.0000)", posts[0].GeocodedAddress)
}

func TestEnrichHonorsCancellation(t *testing.T) {
	geocoder := &countingGeocoder{err: context.Canceled}
	r := NewReconciler(geocoder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts := []Post{
		{ID: "p1", LastSeenLocation: Location{Lat: 37.5, Lng: 127.0}},
	}
	err := r.Enrich(ctx, posts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnrichBoundedConcurrency(t *testing.T) {
	geocoder := &countingGeocoder{}
	r := NewReconciler(geocoder)
	r.MaxConcurrent = 2

	posts := make([]Post, 10)
	for i := range posts {
		posts[i] = Post{ID: "p", LastSeenLocation: Location{Lat: 37.5, Lng: 127.0}}
	}

	require.NoError(t, r.Enrich(context.Background(), posts))
	assert.Equal(t, 10, geocoder.callCount())
	for i := range posts {
		assert.NotEmpty(t, posts[i].GeocodedAddress)
	}
}
