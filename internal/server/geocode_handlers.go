package server

import (
	"errors"
	"math"
	"strconv"

	"findtogether/internal/geocode"
	"findtogether/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Geocode handles GET /api/geocode. The address query is forwarded to the
// provider and the top match returned as a coordinate pair.
func (s *Server) Geocode(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Address is required"))
	}

	loc, err := s.geocoder.Forward(c.Context(), address)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Address", address))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUpstreamError("Failed to geocode address", err))
	}

	return c.JSON(loc)
}

// ReverseGeocode handles GET /api/reverse-geocode. The provider's payload is
// passed through untouched so clients can apply their own address fallbacks.
func (s *Server) ReverseGeocode(c *fiber.Ctx) error {
	rawLat := c.Query("lat")
	rawLng := c.Query("lng")
	if rawLat == "" || rawLng == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Latitude and longitude are required"))
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil ||
		math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Latitude and longitude must be finite numbers"))
	}

	payload, err := s.geocoder.Reverse(c.Context(), lat, lng)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUpstreamError("Failed to reverse geocode coordinates", err))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
