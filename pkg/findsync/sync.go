package findsync

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ReverseGeocoder resolves coordinates to an address payload. *Client
// satisfies it.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error)
}

// Reconciler fills in geocodedAddress on posts and their reports.
type Reconciler struct {
	geocoder ReverseGeocoder
	// MaxConcurrent bounds in-flight lookups; zero means no bound.
	MaxConcurrent int
}

// NewReconciler returns a Reconciler backed by the given geocoder.
func NewReconciler(geocoder ReverseGeocoder) *Reconciler {
	return &Reconciler{geocoder: geocoder}
}

// Enrich resolves addresses for every post and report that lacks one, in
// place. Lookups run concurrently and all settle before Enrich returns.
// Records with an address already set are left untouched, so re-running the
// pass issues no further lookups. Invalid locations are labelled without ever
// reaching the geocoder, and a failed lookup degrades to the coordinate
// fallback rather than failing the pass. Only context cancellation aborts.
func (r *Reconciler) Enrich(ctx context.Context, posts []Post) error {
	g, ctx := errgroup.WithContext(ctx)
	if r.MaxConcurrent > 0 {
		g.SetLimit(r.MaxConcurrent)
	}

	for i := range posts {
		post := &posts[i]
		if post.GeocodedAddress == "" {
			g.Go(func() error {
				addr, err := r.resolve(ctx, post.LastSeenLocation)
				if err != nil {
					return err
				}
				post.GeocodedAddress = addr
				return nil
			})
		}

		for j := range post.Reports {
			report := &post.Reports[j]
			if report.GeocodedAddress != "" {
				continue
			}
			g.Go(func() error {
				addr, err := r.resolve(ctx, report.Location())
				if err != nil {
					return err
				}
				report.GeocodedAddress = addr
				return nil
			})
		}
	}

	return g.Wait()
}

// resolve returns the display address for one location. The only error it
// surfaces is context cancellation.
func (r *Reconciler) resolve(ctx context.Context, loc Location) (string, error) {
	if !loc.Valid() {
		return labelInvalidCoordinates, nil
	}

	res, err := r.geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lng)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return CoordinateFallback(loc.Lat, loc.Lng), nil
	}
	return FormatAddress(res), nil
}
