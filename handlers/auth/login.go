package auth

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	ip := c.IP()

	result, err := h.accounts.Login(c.UserContext(), req)
	if err != nil {
		if h.bruteForceProtection != nil && apperror.Is(err, apperror.KindUnauthenticated) {
			h.bruteForceProtection.RecordFailedAttempt(c.UserContext(), ip)
		}
		return err
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c.UserContext(), ip)
	}

	return response.Success(c, result)
}
