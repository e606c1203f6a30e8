package auth

import (
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	if err := h.accounts.Logout(c.UserContext(), principal); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
