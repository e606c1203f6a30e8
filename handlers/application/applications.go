package application

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles job application requests
type ApplicationHandler struct {
	applications *services.ApplicationService
	resumes      *services.ResumeService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *services.ApplicationService, resumes *services.ResumeService) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		resumes:      resumes,
	}
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListApplications handles GET /api/v1/applications. Students see their own
// applications, employers those for their jobs, admins all of them.
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	page, limit := utils.QueryPage(c)
	jobID, err := utils.QueryUint(c, "job_id")
	if err != nil {
		return err
	}

	filter := services.ApplicationFilter{
		Status: c.Query("status"),
		JobID:  jobID,
		Page:   services.Page{Page: page, Limit: limit},
	}

	applications, total, err := h.applications.List(c.UserContext(), user, filter)
	if err != nil {
		return err
	}

	return response.Paginated(c, applications, response.CalculatePagination(page, limit, total))
}

// CreateApplication handles POST /api/v1/applications
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.CreateApplicationRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	application, err := h.applications.Create(c.UserContext(), user, req)
	if err != nil {
		return err
	}

	return response.Created(c, application)
}

// GetApplication handles GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	application, err := h.applications.Get(c.UserContext(), user, id)
	if err != nil {
		return err
	}

	return response.Success(c, application)
}

// ListJobApplications handles GET /api/v1/applications/by-job/:job_id
func (h *ApplicationHandler) ListJobApplications(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	jobID, err := utils.ParseID(c, "job_id")
	if err != nil {
		return err
	}

	applications, err := h.applications.ListForJob(c.UserContext(), user, jobID)
	if err != nil {
		return err
	}

	return response.Success(c, applications)
}

// UpdateApplication handles PUT /api/v1/applications/:id
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req services.UpdateApplicationRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	application, err := h.applications.Update(c.UserContext(), user, id, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Application updated successfully", application)
}

// UpdateApplicationStatus handles PATCH /api/v1/applications/:id/status
func (h *ApplicationHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	application, err := h.applications.UpdateStatus(c.UserContext(), user, id, req.Status)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Application status updated", application)
}

// WithdrawApplication handles DELETE /api/v1/applications/:id
func (h *ApplicationHandler) WithdrawApplication(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.applications.Withdraw(c.UserContext(), user, id); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Application withdrawn successfully", nil)
}
