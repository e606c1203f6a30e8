package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobService manages job postings.
type JobService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewJobService creates a new job service
func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db, validator: validation.NewValidator()}
}

// CreateJobRequest is the body for posting a job.
type CreateJobRequest struct {
	Title          string  `json:"title" validate:"required,min=1,max=150"`
	Description    string  `json:"description" validate:"omitempty,max=10000"`
	Location       string  `json:"location" validate:"omitempty,max=120"`
	EmploymentType string  `json:"employment_type" validate:"omitempty,max=50"`
	Remote         bool    `json:"remote"`
	StartDate      *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Spots          int     `json:"spots" validate:"gte=0"`
}

// UpdateJobRequest lists the job fields an owner may change. Status and
// ownership are never updated here.
type UpdateJobRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1,max=150"`
	Description    *string `json:"description" validate:"omitempty,max=10000"`
	Location       *string `json:"location" validate:"omitempty,max=120"`
	EmploymentType *string `json:"employment_type" validate:"omitempty,max=50"`
	Remote         *bool   `json:"remote"`
	StartDate      *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Spots          *int    `json:"spots" validate:"omitempty,gte=0"`
}

// JobStatusAll disables the status filter when listing jobs.
const JobStatusAll = "all"

// JobFilter narrows a job listing. Empty fields do not constrain it; an
// empty Status means open jobs only.
type JobFilter struct {
	Status         string
	Search         string
	EmploymentType string
	Location       string
	Remote         *bool
	EmployerID     uint
	Page
}

func checkDateRange(start, end *datatypes.Date) error {
	if start != nil && end != nil && time.Time(*end).Before(time.Time(*start)) {
		return apperror.Validation("Invalid request", "end_date must not be before start_date")
	}
	return nil
}

// Create posts a job for the caller's employer profile. New jobs are
// always open.
func (s *JobService) Create(ctx context.Context, user *model.User, req CreateJobRequest) (*model.Job, error) {
	req.Title = validation.SanitizeString(req.Title)
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	employer, err := employerForUser(s.db.WithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}

	job := model.Job{
		EmployerID:     employer.ID,
		Title:          req.Title,
		Description:    validation.SanitizeString(req.Description),
		Location:       validation.SanitizeString(req.Location),
		EmploymentType: validation.SanitizeString(req.EmploymentType),
		Remote:         req.Remote,
		StartDate:      start,
		EndDate:        end,
		Spots:          req.Spots,
		Status:         model.JobStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, storeErr(err, "Failed to create job")
	}

	log.Infof("employer %d posted job %d", employer.ID, job.ID)
	return &job, nil
}

// List returns a page of jobs matching f, newest first.
func (s *JobService) List(ctx context.Context, f JobFilter) ([]model.Job, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Job{})

	status := strings.ToLower(strings.TrimSpace(f.Status))
	switch {
	case status == "":
		query = query.Where("status = ?", model.JobStatusOpen)
	case status == JobStatusAll:
	case model.IsKnownJobStatus(status):
		query = query.Where("status = ?", status)
	default:
		return nil, 0, apperror.Validation("Invalid status filter",
			fmt.Sprintf("Unknown job status %q", f.Status)).
			WithHelp("Use open, closed, filled or all")
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if et := strings.TrimSpace(f.EmploymentType); et != "" {
		query = query.Where("employment_type = ?", et)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(loc))
	}
	if f.Remote != nil {
		query = query.Where("remote = ?", *f.Remote)
	}
	if f.EmployerID != 0 {
		query = query.Where("employer_id = ?", f.EmployerID)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to count jobs")
	}

	_, limit, offset := f.Page.normalized()

	var jobs []model.Job
	if err := query.
		Preload("Employer").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to list jobs")
	}

	return jobs, total, nil
}

// Get loads a job with its employer.
func (s *JobService) Get(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := s.db.WithContext(ctx).Preload("Employer").First(&job, id).Error; err != nil {
		return nil, notFoundOr(err, "Job", id)
	}
	return &job, nil
}

// ListMine returns every job posted by the caller's employer profile.
func (s *JobService) ListMine(ctx context.Context, user *model.User) ([]model.Job, error) {
	employer, err := employerForUser(s.db.WithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}

	var jobs []model.Job
	if err := s.db.WithContext(ctx).
		Where("employer_id = ?", employer.ID).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error; err != nil {
		return nil, storeErr(err, "Failed to list jobs")
	}
	return jobs, nil
}

// ownedJob loads a job and checks that user's employer profile posted it.
func ownedJob(tx *gorm.DB, user *model.User, jobID uint) (*model.Job, *model.Employer, error) {
	var job model.Job
	if err := tx.First(&job, jobID).Error; err != nil {
		return nil, nil, notFoundOr(err, "Job", jobID)
	}

	employer, err := employerForUser(tx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if job.EmployerID != employer.ID {
		return nil, nil, forbidden("You can only manage jobs posted by your own employer profile")
	}
	return &job, employer, nil
}

// Update changes the listed fields of a job the caller owns.
func (s *JobService) Update(ctx context.Context, user *model.User, id uint, req UpdateJobRequest) (*model.Job, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, _, err := ownedJob(tx, user, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = validation.SanitizeString(*req.Title)
		}
		if req.Description != nil {
			updates["description"] = validation.SanitizeString(*req.Description)
		}
		if req.Location != nil {
			updates["location"] = validation.SanitizeString(*req.Location)
		}
		if req.EmploymentType != nil {
			updates["employment_type"] = validation.SanitizeString(*req.EmploymentType)
		}
		if req.Remote != nil {
			updates["remote"] = *req.Remote
		}
		if req.Spots != nil {
			updates["spots"] = *req.Spots
		}

		start, end := job.StartDate, job.EndDate
		if req.StartDate != nil {
			if start, err = parseDate("start_date", req.StartDate); err != nil {
				return err
			}
			updates["start_date"] = nil
			if start != nil {
				updates["start_date"] = *start
			}
		}
		if req.EndDate != nil {
			if end, err = parseDate("end_date", req.EndDate); err != nil {
				return err
			}
			updates["end_date"] = nil
			if end != nil {
				updates["end_date"] = *end
			}
		}
		if err := checkDateRange(start, end); err != nil {
			return err
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(job).Updates(updates).Error; err != nil {
			return storeErr(err, "Failed to update job")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// UpdateStatus moves a job the caller owns to status.
func (s *JobService) UpdateStatus(ctx context.Context, user *model.User, id uint, status string) (*model.Job, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !model.IsKnownJobStatus(status) {
		return nil, apperror.Validation("Invalid status", fmt.Sprintf("Unknown job status %q", status)).
			WithHelp("Use open, closed or filled")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, _, err := ownedJob(tx, user, id)
		if err != nil {
			return err
		}
		if job.Status == status {
			return nil
		}
		if !model.CanTransitionJob(job.Status, status) {
			return apperror.Conflict("Invalid status transition",
				fmt.Sprintf("A %s job cannot become %s", job.Status, status))
		}
		if err := tx.Model(job).Update("status", status).Error; err != nil {
			return storeErr(err, "Failed to update job status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a job with its applications and reviews. Admins may delete
// any job, employers only their own.
func (s *JobService) Delete(ctx context.Context, user *model.User, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.IsAdmin() {
			var job model.Job
			if err := tx.First(&job, id).Error; err != nil {
				return notFoundOr(err, "Job", id)
			}
		} else if _, _, err := ownedJob(tx, user, id); err != nil {
			return err
		}

		if err := tx.Delete(&model.Job{}, id).Error; err != nil {
			return storeErr(err, "Failed to delete job")
		}
		return nil
	})
}
