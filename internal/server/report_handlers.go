package server

import (
	"strconv"
	"time"

	"findtogether/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetReports handles GET /api/reports. Every stored report is returned,
// whether attached to a post or standalone.
func (s *Server) GetReports(c *fiber.Ctx) error {
	reports, err := s.reportRepo.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(reports)
}

// CreateGlobalReport handles POST /api/report. Standalone reports carry no
// parent post; the sighting time is stamped server-side.
func (s *Server) CreateGlobalReport(c *fiber.Ctx) error {
	description := c.FormValue("description")
	rawLat := c.FormValue("lat")
	rawLng := c.FormValue("lng")

	if description == "" || rawLat == "" || rawLng == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing required fields"))
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil || !(models.Location{Lat: lat, Lng: lng}).Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("lat and lng must be finite numbers"))
	}

	imageName, err := s.saveUploadedImage(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	report := &models.Report{
		Lat:         lat,
		Lng:         lng,
		Time:        time.Now().UTC().Format(time.RFC3339),
		Description: description,
		ImageName:   imageName,
	}
	if err := s.reportRepo.Create(c.Context(), report); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}
