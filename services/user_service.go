package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/storage"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// UserService backs the admin user management endpoints.
type UserService struct {
	db    *gorm.DB
	store storage.BlobStore
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, store storage.BlobStore) *UserService {
	return &UserService{db: db, store: store}
}

// UserFilter narrows the user listing.
type UserFilter struct {
	Role string
	Page
}

// List returns a page of users, optionally filtered by role.
func (s *UserService) List(ctx context.Context, f UserFilter) ([]model.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})

	if role := strings.ToLower(strings.TrimSpace(f.Role)); role != "" {
		if !model.IsValidRole(role) {
			return nil, 0, apperror.Validation("Invalid role filter", fmt.Sprintf("Unknown role %q", f.Role))
		}
		query = query.Where("role = ?", role)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to count users")
	}

	_, limit, offset := f.Page.normalized()

	var users []model.User
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, storeErr(err, "Failed to list users")
	}
	return users, total, nil
}

// Get loads a user with their employer profile, if any.
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Employer").First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// Delete removes a user and everything that depends on them. Their resume
// files are removed afterwards.
func (s *UserService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if actor.ID == id {
		return apperror.Validation("Cannot delete yourself", "Admins cannot delete their own account").
			WithHelp("Ask another admin to remove this account")
	}

	var resumeIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return notFoundOr(err, "User", id)
		}

		ids, err := resumeIDsForUser(tx, id)
		if err != nil {
			return storeErr(err, "Failed to list resumes")
		}
		resumeIDs = ids

		if err := tx.Delete(&model.User{}, id).Error; err != nil {
			return storeErr(err, "Failed to delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infof("admin %d deleted user %d", actor.ID, id)
	if s.store != nil {
		removeBlobs(ctx, s.store, resumeIDs)
	}
	return nil
}
