package admin

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user administration requests
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsersRequest represents the query parameters for listing users
type ListUsersRequest struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Role  string `query:"role"`
}

// ListUsers retrieves all users with pagination and an optional role filter
// GET /admin/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var req ListUsersRequest
	if err := c.QueryParser(&req); err != nil {
		return apperror.Validation("Invalid query parameters", "page and limit must be integers")
	}

	users, total, err := h.users.List(c.UserContext(), services.UserFilter{
		Role: req.Role,
		Page: services.Page{Page: req.Page, Limit: req.Limit},
	})
	if err != nil {
		return err
	}

	return response.Paginated(c, users, response.CalculatePagination(req.Page, req.Limit, total))
}

// GetUser retrieves a single user
// GET /admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return response.Success(c, user)
}

// DeleteUser removes a user and everything they own
// DELETE /admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}
