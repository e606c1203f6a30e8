package employer

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// EmployerHandler handles employer profile requests
type EmployerHandler struct {
	employers *services.EmployerService
}

// NewEmployerHandler creates a new employer handler
func NewEmployerHandler(employers *services.EmployerService) *EmployerHandler {
	return &EmployerHandler{employers: employers}
}

// ListEmployers handles GET /api/v1/employers
func (h *EmployerHandler) ListEmployers(c *fiber.Ctx) error {
	page, limit := utils.QueryPage(c)

	employers, total, err := h.employers.List(c.UserContext(), services.Page{Page: page, Limit: limit})
	if err != nil {
		return err
	}

	return response.Paginated(c, employers, response.CalculatePagination(page, limit, total))
}

// GetMyEmployer handles GET /api/v1/employers/me
func (h *EmployerHandler) GetMyEmployer(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	employer, err := h.employers.ForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return response.Success(c, employer)
}

// UpdateMyEmployer handles PUT /api/v1/employers/me
func (h *EmployerHandler) UpdateMyEmployer(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.UpdateEmployerRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	employer, err := h.employers.UpdateMine(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Employer profile updated", employer)
}

// GetEmployer handles GET /api/v1/employers/:id
func (h *EmployerHandler) GetEmployer(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	employer, err := h.employers.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return response.Success(c, employer)
}

// DeleteEmployer handles DELETE /api/v1/employers/:id
// Cascade deletes the employer's jobs with their applications and reviews
func (h *EmployerHandler) DeleteEmployer(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.employers.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Employer deleted successfully", nil)
}
