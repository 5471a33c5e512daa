package server

import (
	"findtogether/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateNickname handles PATCH /api/user/nickname
func (s *Server) UpdateNickname(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Nickname == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Nickname is required"))
	}

	user, err := s.userRepo.UpdateNickname(c.Context(), userID, req.Nickname)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(user)
}
