package department

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// DepartmentHandler handles department requests
type DepartmentHandler struct {
	departments *services.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departments *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// ListDepartments handles GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, departments)
}

// GetDepartment handles GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	department, err := h.departments.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return response.Success(c, department)
}

// CreateDepartment handles POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var req services.DepartmentRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	department, err := h.departments.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	return response.Created(c, department)
}

// UpdateDepartment handles PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req services.UpdateDepartmentRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	department, err := h.departments.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Department updated successfully", department)
}

// DeleteDepartment handles DELETE /api/v1/departments/:id
// Employers linked to it are unlinked, not deleted
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.departments.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Department deleted successfully", nil)
}

// GetMyDepartment handles GET /api/v1/departments/my-department
func (h *DepartmentHandler) GetMyDepartment(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	department, err := h.departments.MyDepartment(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return response.Success(c, department)
}

// UpdateMyDepartment handles PUT /api/v1/departments/my-department. A new
// department is created and linked when the employer has none.
func (h *DepartmentHandler) UpdateMyDepartment(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.DepartmentRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	department, err := h.departments.UpdateMyDepartment(c.UserContext(), user.ID, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Department saved", department)
}
