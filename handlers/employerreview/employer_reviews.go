package employerreview

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// EmployerReviewHandler handles employer reviews of accepted applicants
type EmployerReviewHandler struct {
	reviews *services.EmployerReviewService
}

// NewEmployerReviewHandler creates a new employer review handler
func NewEmployerReviewHandler(reviews *services.EmployerReviewService) *EmployerReviewHandler {
	return &EmployerReviewHandler{reviews: reviews}
}

// CreateEmployerReview handles POST /api/v1/employer-reviews
func (h *EmployerReviewHandler) CreateEmployerReview(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.CreateEmployerReviewRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.UserContext(), user, req)
	if err != nil {
		return err
	}

	return response.Created(c, review)
}

// GetApplicationReview handles GET /api/v1/employer-reviews/application/:application_id
func (h *EmployerReviewHandler) GetApplicationReview(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	applicationID, err := utils.ParseID(c, "application_id")
	if err != nil {
		return err
	}

	review, err := h.reviews.GetForApplication(c.UserContext(), user, applicationID)
	if err != nil {
		return err
	}
	if review == nil {
		return response.SuccessWithMessage(c, "This application has not been reviewed", nil)
	}

	return response.Success(c, review)
}

// ListStudentReviews handles GET /api/v1/employer-reviews/student/:student_id
func (h *EmployerReviewHandler) ListStudentReviews(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}
	studentID, err := utils.ParseID(c, "student_id")
	if err != nil {
		return err
	}

	reviews, err := h.reviews.ListForStudent(c.UserContext(), user, studentID)
	if err != nil {
		return err
	}

	return response.Success(c, reviews)
}
