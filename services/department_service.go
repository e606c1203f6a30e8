package services

import (
	"context"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"gorm.io/gorm"
)

// DepartmentService manages departments and the employer to department link.
type DepartmentService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDepartmentService creates a new department service
func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{db: db, validator: validation.NewValidator()}
}

// DepartmentRequest is the body for creating a department or replacing the
// caller's department details.
type DepartmentRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Office string `json:"office" validate:"omitempty,max=50"`
	Phone  string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateDepartmentRequest changes only the non-nil fields.
type UpdateDepartmentRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Office *string `json:"office" validate:"omitempty,max=50"`
	Phone  *string `json:"phone" validate:"omitempty,max=50"`
}

func departmentNameTaken() error {
	return apperror.Conflict("Department already exists", "A department with this name already exists").
		WithHelp("Choose a different department name")
}

func (r *DepartmentRequest) sanitize() {
	r.Name = validation.SanitizeString(r.Name)
	r.Office = validation.SanitizeString(r.Office)
	r.Phone = validation.SanitizeString(r.Phone)
}

// List returns every department ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, storeErr(err, "Failed to list departments")
	}
	return departments, nil
}

// Get loads a department by ID.
func (s *DepartmentService) Get(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	if err := s.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, notFoundOr(err, "Department", id)
	}
	return &department, nil
}

// Create adds a department; names are unique.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*model.Department, error) {
	req.sanitize()
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	department := model.Department{Name: req.Name, Office: req.Office, Phone: req.Phone}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createDepartment(tx, &department)
	})
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func createDepartment(tx *gorm.DB, department *model.Department) error {
	var count int64
	if err := tx.Model(&model.Department{}).Where("name = ?", department.Name).Count(&count).Error; err != nil {
		return storeErr(err, "Failed to check department name")
	}
	if count > 0 {
		return departmentNameTaken()
	}
	if err := tx.Create(department).Error; err != nil {
		if isDuplicate(err) {
			return departmentNameTaken()
		}
		return storeErr(err, "Failed to create department")
	}
	return nil
}

// Update changes the non-nil fields of a department.
func (s *DepartmentService) Update(ctx context.Context, id uint, req UpdateDepartmentRequest) (*model.Department, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var department model.Department
		if err := tx.First(&department, id).Error; err != nil {
			return notFoundOr(err, "Department", id)
		}
		return updateDepartment(tx, &department, req)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func updateDepartment(tx *gorm.DB, department *model.Department, req UpdateDepartmentRequest) error {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = validation.SanitizeString(*req.Name)
	}
	if req.Office != nil {
		updates["office"] = validation.SanitizeString(*req.Office)
	}
	if req.Phone != nil {
		updates["phone"] = validation.SanitizeString(*req.Phone)
	}
	if len(updates) == 0 {
		return nil
	}

	if err := tx.Model(department).Updates(updates).Error; err != nil {
		if isDuplicate(err) {
			return departmentNameTaken()
		}
		return storeErr(err, "Failed to update department")
	}
	return nil
}

// Delete removes a department; its employers become unassigned.
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Employer{}).Where("department_id = ?", id).
			Update("department_id", nil).Error; err != nil {
			return storeErr(err, "Failed to unlink employers")
		}

		result := tx.Delete(&model.Department{}, id)
		if result.Error != nil {
			return storeErr(result.Error, "Failed to delete department")
		}
		if result.RowsAffected == 0 {
			return notFoundOr(gorm.ErrRecordNotFound, "Department", id)
		}
		return nil
	})
}

// MyDepartment returns the department linked to the caller's employer
// profile.
func (s *DepartmentService) MyDepartment(ctx context.Context, userID uint) (*model.Department, error) {
	employer, err := employerForUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if employer.DepartmentID == nil {
		return nil, apperror.NotFound("Department not found", "No department is linked to your employer profile").
			WithHelp("Set your department with PUT /api/v1/departments/my-department")
	}
	return s.Get(ctx, *employer.DepartmentID)
}

// UpdateMyDepartment updates the caller's linked department, or creates one
// and links it when none is linked yet.
func (s *DepartmentService) UpdateMyDepartment(ctx context.Context, userID uint, req DepartmentRequest) (*model.Department, error) {
	req.sanitize()
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var departmentID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employer, err := employerForUser(tx, userID)
		if err != nil {
			return err
		}

		if employer.DepartmentID != nil {
			var department model.Department
			if err := tx.First(&department, *employer.DepartmentID).Error; err != nil {
				return notFoundOr(err, "Department", *employer.DepartmentID)
			}
			departmentID = department.ID
			return updateDepartment(tx, &department, UpdateDepartmentRequest{
				Name:   &req.Name,
				Office: &req.Office,
				Phone:  &req.Phone,
			})
		}

		department := model.Department{Name: req.Name, Office: req.Office, Phone: req.Phone}
		if err := createDepartment(tx, &department); err != nil {
			return err
		}
		departmentID = department.ID

		if err := tx.Model(employer).Update("department_id", department.ID).Error; err != nil {
			return storeErr(err, "Failed to link department")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, departmentID)
}
