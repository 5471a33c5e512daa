package server

import (
	"errors"
	"os"
	"strconv"

	"findtogether/internal/models"
	"findtogether/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// SignedURL handles GET /api/signed-url. Clients exchange a stored object
// name for a time-limited read URL; names are never readable without one.
func (s *Server) SignedURL(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Filename is required"))
	}

	signedURL, err := s.store.SignedURL(filename, 0)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Object", filename))
		case errors.Is(err, storage.ErrInvalidObjectName):
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid filename"))
		default:
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	return c.JSON(fiber.Map{
		"signedUrl": signedURL,
	})
}

// ServeMedia handles GET /media/:object. The expires and sig query parameters
// form the credential; a bad or expired signature yields 403.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	object := c.Params("object")

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil || !s.store.Verify(object, expires, c.Query("sig")) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Invalid or expired signature"))
	}

	path, err := s.store.Path(object)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid filename"))
	}
	if _, err := os.Stat(path); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Object", object))
	}

	return c.SendFile(path)
}
