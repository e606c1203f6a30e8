package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// ApplicationService manages student applications and their review by
// employers.
type ApplicationService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db, validator: validation.NewValidator()}
}

// CreateApplicationRequest is the body for applying to a job.
type CreateApplicationRequest struct {
	JobID       uint   `json:"job_id" validate:"required,gt=0"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=10000"`
	ResumeURL   string `json:"resume_url" validate:"omitempty,max=255"`
}

// UpdateApplicationRequest lists what an applicant may change while the
// application is still submitted.
type UpdateApplicationRequest struct {
	CoverLetter *string `json:"cover_letter" validate:"omitempty,max=10000"`
	ResumeURL   *string `json:"resume_url" validate:"omitempty,max=255"`
}

// ApplicationFilter narrows an application listing.
type ApplicationFilter struct {
	Status string
	JobID  uint
	Page
}

func duplicateApplication() error {
	return apperror.Conflict("Already applied", "You have already applied to this job").
		WithHelp("Check the status of your existing application instead")
}

// canonicalResumeURL checks a submitted resume reference and returns the
// form stored on the application.
func canonicalResumeURL(tx *gorm.DB, userID uint, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	id, ok := ResumeIDFromURL(raw)
	if !ok {
		return "", apperror.Validation("Invalid resume", "resume_url must reference an uploaded resume").
			WithHelp("Use the file_url returned by the resume upload")
	}
	if err := ownResume(tx, userID, id); err != nil {
		return "", err
	}
	return ResumePathPrefix + id, nil
}

// Create applies the student to an open job.
func (s *ApplicationService) Create(ctx context.Context, user *model.User, req CreateApplicationRequest) (*model.Application, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var application model.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job model.Job
		if err := tx.First(&job, req.JobID).Error; err != nil {
			return notFoundOr(err, "Job", req.JobID)
		}
		if job.Status != model.JobStatusOpen {
			return apperror.Conflict("Job not open", fmt.Sprintf("This job is %s and no longer accepts applications", job.Status))
		}

		var count int64
		if err := tx.Model(&model.Application{}).
			Where("job_id = ? AND user_id = ?", req.JobID, user.ID).
			Count(&count).Error; err != nil {
			return storeErr(err, "Failed to check existing applications")
		}
		if count > 0 {
			return duplicateApplication()
		}

		resumeURL, err := canonicalResumeURL(tx, user.ID, req.ResumeURL)
		if err != nil {
			return err
		}

		application = model.Application{
			JobID:       req.JobID,
			UserID:      user.ID,
			Status:      model.ApplicationStatusSubmitted,
			CoverLetter: validation.SanitizeString(req.CoverLetter),
			ResumeURL:   resumeURL,
			SubmittedAt: tx.NowFunc(),
		}
		if err := tx.Create(&application).Error; err != nil {
			if isDuplicate(err) {
				return duplicateApplication()
			}
			return storeErr(err, "Failed to create application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("user %d applied to job %d", user.ID, req.JobID)
	return &application, nil
}

// List returns applications visible to user: students see their own,
// employers those to their jobs, admins all.
func (s *ApplicationService) List(ctx context.Context, user *model.User, f ApplicationFilter) ([]model.Application, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Application{})

	switch {
	case user.IsAdmin():
	case user.IsEmployer():
		employer, err := employerForUser(s.db.WithContext(ctx), user.ID)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("job_id IN (?)",
			s.db.WithContext(ctx).Model(&model.Job{}).Select("id").Where("employer_id = ?", employer.ID))
	default:
		query = query.Where("user_id = ?", user.ID)
	}

	if status := strings.ToLower(strings.TrimSpace(f.Status)); status != "" {
		if !model.IsKnownApplicationStatus(status) {
			return nil, 0, apperror.Validation("Invalid status filter", fmt.Sprintf("Unknown application status %q", f.Status))
		}
		query = query.Where("status = ?", status)
	}
	if f.JobID != 0 {
		query = query.Where("job_id = ?", f.JobID)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to count applications")
	}

	_, limit, offset := f.Page.normalized()

	var applications []model.Application
	if err := query.
		Preload("Job").
		Preload("User").
		Order("submitted_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to list applications")
	}

	return applications, total, nil
}

// loadApplication loads an application with its job.
func loadApplication(tx *gorm.DB, id uint) (*model.Application, error) {
	var application model.Application
	if err := tx.Preload("Job").First(&application, id).Error; err != nil {
		return nil, notFoundOr(err, "Application", id)
	}
	if application.Job == nil {
		return nil, notFoundOr(gorm.ErrRecordNotFound, "Job", application.JobID)
	}
	return &application, nil
}

// ownsJob reports whether user's employer profile posted job.
func ownsJob(tx *gorm.DB, user *model.User, job *model.Job) (bool, error) {
	if !user.IsEmployer() {
		return false, nil
	}
	var count int64
	if err := tx.Model(&model.Employer{}).
		Where("id = ? AND user_id = ?", job.EmployerID, user.ID).
		Count(&count).Error; err != nil {
		return false, storeErr(err, "Failed to check job ownership")
	}
	return count > 0, nil
}

// Get returns an application to its applicant, the employer that received
// it, or an admin.
func (s *ApplicationService) Get(ctx context.Context, user *model.User, id uint) (*model.Application, error) {
	db := s.db.WithContext(ctx)

	application, err := loadApplication(db, id)
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

	var applicant model.User
	if err := db.First(&applicant, application.UserID).Error; err != nil {
		return nil, notFoundOr(err, "User", application.UserID)
	}
	application.User = &applicant
	return application, nil
}

// ListForJob returns the applications to a job for its employer or an admin.
func (s *ApplicationService) ListForJob(ctx context.Context, user *model.User, jobID uint) ([]model.Application, error) {
	db := s.db.WithContext(ctx)

	var job model.Job
	if err := db.First(&job, jobID).Error; err != nil {
		return nil, notFoundOr(err, "Job", jobID)
	}

	if !user.IsAdmin() {
		owns, err := ownsJob(db, user, &job)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, forbidden("You can only view applications to your own jobs")
		}
	}

	var applications []model.Application
	if err := db.Preload("User").
		Where("job_id = ?", jobID).
		Order("submitted_at ASC, id ASC").
		Find(&applications).Error; err != nil {
		return nil, storeErr(err, "Failed to list applications")
	}
	return applications, nil
}

// Update lets the applicant revise a submitted application.
func (s *ApplicationService) Update(ctx context.Context, user *model.User, id uint, req UpdateApplicationRequest) (*model.Application, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application model.Application
		if err := tx.First(&application, id).Error; err != nil {
			return notFoundOr(err, "Application", id)
		}
		if application.UserID != user.ID {
			return forbidden("You can only edit your own applications")
		}
		if application.Status != model.ApplicationStatusSubmitted {
			return apperror.Conflict("Application locked",
				fmt.Sprintf("A %s application can no longer be edited", application.Status))
		}

		updates := map[string]interface{}{}
		if req.CoverLetter != nil {
			updates["cover_letter"] = validation.SanitizeString(*req.CoverLetter)
		}
		if req.ResumeURL != nil {
			resumeURL, err := canonicalResumeURL(tx, user.ID, *req.ResumeURL)
			if err != nil {
				return err
			}
			updates["resume_url"] = resumeURL
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return storeErr(err, "Failed to update application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, user, id)
}

// UpdateStatus moves an application to status on behalf of the employer
// that received it.
func (s *ApplicationService) UpdateStatus(ctx context.Context, user *model.User, id uint, status string) (*model.Application, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !model.IsKnownApplicationStatus(status) {
		return nil, apperror.Validation("Invalid status", fmt.Sprintf("Unknown application status %q", status)).
			WithHelp("Use submitted, reviewed, accepted or rejected")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		application, err := loadApplication(tx, id)
		if err != nil {
			return err
		}

		owns, err := ownsJob(tx, user, application.Job)
		if err != nil {
			return err
		}
		if !owns {
			return forbidden("You can only review applications to your own jobs")
		}

		if application.Status == status {
			return nil
		}
		if !model.CanTransitionApplication(application.Status, status) {
			return apperror.Conflict("Invalid status transition",
				fmt.Sprintf("A %s application cannot become %s", application.Status, status))
		}

		if err := tx.Model(&model.Application{ID: application.ID}).Update("status", status).Error; err != nil {
			return storeErr(err, "Failed to update application status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, user, id)
}

// Withdraw deletes an application. Applicants may withdraw until a decision
// is made; admins at any time.
func (s *ApplicationService) Withdraw(ctx context.Context, user *model.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application model.Application
		if err := tx.First(&application, id).Error; err != nil {
			return notFoundOr(err, "Application", id)
		}

		if !user.IsAdmin() {
			if application.UserID != user.ID {
				return forbidden("You can only withdraw your own applications")
			}
			switch application.Status {
			case model.ApplicationStatusSubmitted, model.ApplicationStatusReviewed:
			default:
				return apperror.Conflict("Application decided",
					fmt.Sprintf("A %s application can no longer be withdrawn", application.Status))
			}
		}

		if err := tx.Delete(&model.Application{}, id).Error; err != nil {
			return storeErr(err, "Failed to withdraw application")
		}
		return nil
	})
}
