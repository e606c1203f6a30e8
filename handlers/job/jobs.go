package job

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// JobHandler handles job posting requests
type JobHandler struct {
	jobs *services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListJobs handles GET /api/v1/jobs
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	page, limit := utils.QueryPage(c)

	remote, err := utils.QueryBool(c, "remote")
	if err != nil {
		return err
	}
	employerID, err := utils.QueryUint(c, "employer_id")
	if err != nil {
		return err
	}

	filter := services.JobFilter{
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		EmploymentType: c.Query("employment_type"),
		Location:       c.Query("location"),
		Remote:         remote,
		EmployerID:     employerID,
		Page:           services.Page{Page: page, Limit: limit},
	}

	jobs, total, err := h.jobs.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return response.Paginated(c, jobs, response.CalculatePagination(page, limit, total))
}

// ListMyJobs handles GET /api/v1/jobs/my
func (h *JobHandler) ListMyJobs(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListMine(c.UserContext(), user)
	if err != nil {
		return err
	}

	return response.Success(c, jobs)
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobs.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return response.Success(c, job)
}

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.CreateJobRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.UserContext(), user, req)
	if err != nil {
		return err
	}

	return response.Created(c, job)
}

// UpdateJob handles PUT /api/v1/jobs/:id
func (h *JobHandler) UpdateJob(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req services.UpdateJobRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.UserContext(), user, id, req)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Job updated successfully", job)
}

// UpdateJobStatus handles PATCH /api/v1/jobs/:id/status
func (h *JobHandler) UpdateJobStatus(c *fiber.Ctx) error {
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

	job, err := h.jobs.UpdateStatus(c.UserContext(), user, id, req.Status)
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Job status updated", job)
}

// DeleteJob handles DELETE /api/v1/jobs/:id
func (h *JobHandler) DeleteJob(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.UserContext(), user, id); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Job deleted successfully", nil)
}
