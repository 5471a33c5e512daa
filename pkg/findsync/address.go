package findsync

import (
	"fmt"
	"strings"
)

// User-facing labels for degraded address results. The product ships in
// Korean.
const (
	labelInvalidCoordinates = "유효하지 않은 좌표"
	labelNoAddress          = "주소 정보 없음"
)

// FormatAddress builds a display address from a reverse-geocode result:
// country, then city (or town, or village), then neighbourhood, then road.
// When every component is blank the provider's display_name is used, and
// failing that a generic no-address label.
func FormatAddress(res *ReverseGeocodeResult) string {
	if res == nil {
		return labelNoAddress
	}

	a := res.Address
	locality := a.City
	if locality == "" {
		locality = a.Town
	}
	if locality == "" {
		locality = a.Village
	}

	parts := make([]string, 0, 4)
	for _, p := range []string{a.Country, locality, a.Neighbourhood, a.Road} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if res.DisplayName != "" {
		return res.DisplayName
	}
	return labelNoAddress
}

// CoordinateFallback renders a coordinate pair for display when the address
// lookup itself failed.
func CoordinateFallback(lat, lng float64) string {
	return fmt.Sprintf("(%.4f, %.4f)", lat, lng)
}
