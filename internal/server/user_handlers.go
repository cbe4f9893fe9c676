package server

import (
	"gatehouse/internal/cache"
	"gatehouse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /users/:id
// @Summary Public user profile
// @Description Fetch the public profile for a user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.PublicProfile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
	}
	userID := uint(id)

	// Cache-aside on the public projection only; the cached value never
	// contains the email or the password hash.
	var profile models.PublicProfile
	err = s.cache.Aside(c.UserContext(), cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return err
		}
		profile = user.Profile()
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profile)
}
