package auth

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/v1/auth/me
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	me, err := h.accounts.Me(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return response.Success(c, me)
}

// UpdateProfile handles PUT /api/v1/auth/me
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.UpdateProfileRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	updated, err := h.accounts.UpdateProfile(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Profile updated", updated)
}

// ChangePassword handles POST /api/v1/auth/change-password. Earlier tokens
// stop working; the response carries a fresh one.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.ChangePasswordRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	result, err := h.accounts.ChangePassword(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Password changed", result)
}
