package services

import (
	"context"
	"math"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"gorm.io/gorm"
)

// ReviewService manages student reviews of jobs.
type ReviewService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, validator: validation.NewValidator()}
}

// CreateReviewRequest is the body for reviewing a job.
type CreateReviewRequest struct {
	JobID   uint   `json:"job_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=5000"`
}

// EmployerRatings summarizes the reviews left on an employer's jobs.
type EmployerRatings struct {
	EmployerID    uint           `json:"employer_id"`
	AverageRating float64        `json:"average_rating"`
	Count         int            `json:"count"`
	Reviews       []model.Review `json:"reviews"`
}

func duplicateReview() error {
	return apperror.Conflict("Review already exists", "You have already reviewed this job")
}

// Create records the caller's review of a job.
func (s *ReviewService) Create(ctx context.Context, user *model.User, req CreateReviewRequest) (*model.Review, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var review model.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job model.Job
		if err := tx.First(&job, req.JobID).Error; err != nil {
			return notFoundOr(err, "Job", req.JobID)
		}

		var count int64
		if err := tx.Model(&model.Review{}).
			Where("job_id = ? AND user_id = ?", req.JobID, user.ID).
			Count(&count).Error; err != nil {
			return storeErr(err, "Failed to check existing reviews")
		}
		if count > 0 {
			return duplicateReview()
		}

		review = model.Review{
			JobID:      job.ID,
			EmployerID: job.EmployerID,
			UserID:     user.ID,
			Rating:     req.Rating,
			Comment:    validation.SanitizeString(req.Comment),
		}
		if err := tx.Create(&review).Error; err != nil {
			if isDuplicate(err) {
				return duplicateReview()
			}
			return storeErr(err, "Failed to create review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForJob returns a job's reviews, newest first.
func (s *ReviewService) ListForJob(ctx context.Context, jobID uint) ([]model.Review, error) {
	db := s.db.WithContext(ctx)

	var job model.Job
	if err := db.Select("id").First(&job, jobID).Error; err != nil {
		return nil, notFoundOr(err, "Job", jobID)
	}

	var reviews []model.Review
	if err := db.Preload("User").
		Where("job_id = ?", jobID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, storeErr(err, "Failed to list reviews")
	}
	return reviews, nil
}

// ListForEmployer returns the reviews across an employer's jobs with their
// average rating.
func (s *ReviewService) ListForEmployer(ctx context.Context, employerID uint) (*EmployerRatings, error) {
	db := s.db.WithContext(ctx)

	var employer model.Employer
	if err := db.Select("id").First(&employer, employerID).Error; err != nil {
		return nil, notFoundOr(err, "Employer", employerID)
	}

	var reviews []model.Review
	if err := db.Preload("User").
		Where("employer_id = ?", employerID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, storeErr(err, "Failed to list reviews")
	}

	ratings := &EmployerRatings{EmployerID: employerID, Count: len(reviews), Reviews: reviews}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		ratings.AverageRating = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	}
	return ratings, nil
}
