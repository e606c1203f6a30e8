package auth

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	accounts             *services.AccountService
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil
// when no Redis is configured.
func NewAuthHandler(accounts *services.AccountService, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		accounts:             accounts,
		bruteForceProtection: bruteForceProtection,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	result, err := h.accounts.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return response.Created(c, result)
}
