package review

import (
	"github.com/campusjobs/jobboard-api/services"
	"github.com/campusjobs/jobboard-api/utils"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles student reviews of jobs
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	user, err := middleware.MustUser(c)
	if err != nil {
		return err
	}

	var req services.CreateReviewRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.UserContext(), user, req)
	if err != nil {
		return err
	}

	return response.Created(c, review)
}

// ListJobReviews handles GET /api/v1/reviews/job/:job_id
func (h *ReviewHandler) ListJobReviews(c *fiber.Ctx) error {
	jobID, err := utils.ParseID(c, "job_id")
	if err != nil {
		return err
	}

	reviews, err := h.reviews.ListForJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}

	return response.Success(c, reviews)
}

// ListEmployerReviews handles GET /api/v1/reviews/employer/:employer_id
func (h *ReviewHandler) ListEmployerReviews(c *fiber.Ctx) error {
	employerID, err := utils.ParseID(c, "employer_id")
	if err != nil {
		return err
	}

	ratings, err := h.reviews.ListForEmployer(c.UserContext(), employerID)
	if err != nil {
		return err
	}

	return response.Success(c, ratings)
}
