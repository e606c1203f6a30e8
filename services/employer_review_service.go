package services

import (
	"context"
	"errors"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"gorm.io/gorm"
)

// EmployerReviewService manages employers' reviews of accepted students.
type EmployerReviewService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewEmployerReviewService creates a new employer review service
func NewEmployerReviewService(db *gorm.DB) *EmployerReviewService {
	return &EmployerReviewService{db: db, validator: validation.NewValidator()}
}

// CreateEmployerReviewRequest is the body for reviewing an accepted
// applicant.
type CreateEmployerReviewRequest struct {
	ApplicationID uint   `json:"application_id" validate:"required,gt=0"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string `json:"comment" validate:"omitempty,max=5000"`
}

func duplicateEmployerReview() error {
	return apperror.Conflict("Review already exists", "You have already reviewed this application")
}

// Create records a review of the student behind an accepted application to
// one of the caller's jobs.
func (s *EmployerReviewService) Create(ctx context.Context, user *model.User, req CreateEmployerReviewRequest) (*model.EmployerReview, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var review model.EmployerReview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application model.Application
		if err := tx.First(&application, req.ApplicationID).Error; err != nil {
			return notFoundOr(err, "Application", req.ApplicationID)
		}

		var job model.Job
		if err := tx.First(&job, application.JobID).Error; err != nil {
			return notFoundOr(err, "Job", application.JobID)
		}

		employer, err := employerForUser(tx, user.ID)
		if err != nil {
			return err
		}
		if job.EmployerID != employer.ID {
			return forbidden("You can only review applicants to your own jobs")
		}

		if application.Status != model.ApplicationStatusAccepted {
			return apperror.Conflict("Application not accepted", "Only accepted applications can be reviewed").
				WithHelp("Accept the application before reviewing the student")
		}

		var count int64
		if err := tx.Model(&model.EmployerReview{}).
			Where("application_id = ?", application.ID).
			Count(&count).Error; err != nil {
			return storeErr(err, "Failed to check existing reviews")
		}
		if count > 0 {
			return duplicateEmployerReview()
		}

		review = model.EmployerReview{
			ApplicationID: application.ID,
			JobID:         job.ID,
			StudentID:     application.UserID,
			EmployerID:    employer.ID,
			Rating:        req.Rating,
			Comment:       validation.SanitizeString(req.Comment),
		}
		if err := tx.Create(&review).Error; err != nil {
			if isDuplicate(err) {
				return duplicateEmployerReview()
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

// GetForApplication returns the review of an application, or nil if there
// is none. Visible to the employer that wrote it, the reviewed student and
// admins.
func (s *EmployerReviewService) GetForApplication(ctx context.Context, user *model.User, applicationID uint) (*model.EmployerReview, error) {
	db := s.db.WithContext(ctx)

	application, err := loadApplication(db, applicationID)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() && application.UserID != user.ID {
		owns, err := ownsJob(db, user, application.Job)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, forbidden("You do not have access to this application")
		}
	}

	var review model.EmployerReview
	if err := db.Where("application_id = ?", applicationID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr(err, "Failed to load review")
	}
	return &review, nil
}

// ListForStudent returns the reviews a student received. Visible to the
// student, admins and employers.
func (s *EmployerReviewService) ListForStudent(ctx context.Context, user *model.User, studentID uint) ([]model.EmployerReview, error) {
	if user.IsStudent() && user.ID != studentID {
		return nil, forbidden("Students can only view their own reviews")
	}

	db := s.db.WithContext(ctx)

	var student model.User
	if err := db.Select("id").First(&student, studentID).Error; err != nil {
		return nil, notFoundOr(err, "User", studentID)
	}

	var reviews []model.EmployerReview
	if err := db.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, storeErr(err, "Failed to list reviews")
	}
	return reviews, nil
}
