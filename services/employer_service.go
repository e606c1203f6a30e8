package services

import (
	"context"
	"errors"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// EmployerService manages employer profiles and resolves the profile behind
// an employer account.
type EmployerService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewEmployerService creates a new employer service
func NewEmployerService(db *gorm.DB) *EmployerService {
	return &EmployerService{db: db, validator: validation.NewValidator()}
}

// UpdateEmployerRequest lists the profile fields an employer may change.
// Nil fields are left untouched.
type UpdateEmployerRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email,max=120"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	DepartmentID *uint   `json:"department_id" validate:"omitempty,gt=0"`
}

// ForUser loads the employer profile owned by userID.
func (s *EmployerService) ForUser(ctx context.Context, userID uint) (*model.Employer, error) {
	return employerForUser(s.db.WithContext(ctx), userID)
}

func employerForUser(db *gorm.DB, userID uint) (*model.Employer, error) {
	var employer model.Employer
	if err := db.Where("user_id = ?", userID).First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbidden("Employer profile required", "No employer profile is linked to this account").
				WithHelp("Register an employer account to manage jobs and applicants")
		}
		return nil, storeErr(err, "Failed to load employer profile")
	}
	return &employer, nil
}

// List returns a page of employers, ordered by name.
func (s *EmployerService) List(ctx context.Context, p Page) ([]model.Employer, int64, error) {
	_, limit, offset := p.normalized()

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Employer{}).Count(&total).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to count employers")
	}

	var employers []model.Employer
	if err := s.db.WithContext(ctx).
		Preload("Department").
		Order("name ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&employers).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to list employers")
	}

	return employers, total, nil
}

// Get loads an employer profile with its department.
func (s *EmployerService) Get(ctx context.Context, id uint) (*model.Employer, error) {
	var employer model.Employer
	if err := s.db.WithContext(ctx).Preload("Department").First(&employer, id).Error; err != nil {
		return nil, notFoundOr(err, "Employer", id)
	}
	return &employer, nil
}

// UpdateMine updates the caller's own employer profile.
func (s *EmployerService) UpdateMine(ctx context.Context, userID uint, req UpdateEmployerRequest) (*model.Employer, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var employerID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employer, err := employerForUser(tx, userID)
		if err != nil {
			return err
		}
		employerID = employer.ID

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = validation.SanitizeString(*req.Name)
		}
		if req.ContactEmail != nil {
			updates["contact_email"] = validation.NormalizeEmail(*req.ContactEmail)
		}
		if req.Description != nil {
			updates["description"] = validation.SanitizeString(*req.Description)
		}
		if req.DepartmentID != nil {
			var count int64
			if err := tx.Model(&model.Department{}).Where("id = ?", *req.DepartmentID).Count(&count).Error; err != nil {
				return storeErr(err, "Failed to load department")
			}
			if count == 0 {
				return notFoundOr(gorm.ErrRecordNotFound, "Department", *req.DepartmentID)
			}
			updates["department_id"] = *req.DepartmentID
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(employer).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return apperror.Conflict("Contact email in use", "Another employer profile already uses this contact email")
			}
			return storeErr(err, "Failed to update employer profile")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, employerID)
}

// Delete removes an employer profile by deleting the account that owns it,
// so no employer user is left without a profile. Jobs, applications and
// reviews go with it.
func (s *EmployerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employer model.Employer
		if err := tx.Select("id", "user_id").First(&employer, id).Error; err != nil {
			return notFoundOr(err, "Employer", id)
		}

		if err := tx.Delete(&model.User{}, employer.UserID).Error; err != nil {
			return storeErr(err, "Failed to delete employer")
		}

		log.Infof("deleted employer %d with user %d", employer.ID, employer.UserID)
		return nil
	})
}
