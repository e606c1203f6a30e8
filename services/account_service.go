package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/campusjobs/jobboard-api/utils/validation"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// AccountService registers users and manages their credentials and sessions.
type AccountService struct {
	db               *gorm.DB
	hasher           *auth.PasswordHasher
	jwtManager       *auth.JWTManager
	blacklist        *auth.BlacklistService
	validator        *validation.Validator
	allowAdminSignup bool

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates a new account service
func NewAccountService(db *gorm.DB, hasher *auth.PasswordHasher, jwtManager *auth.JWTManager, allowAdminSignup bool) *AccountService {
	return &AccountService{
		db:               db,
		hasher:           hasher,
		jwtManager:       jwtManager,
		blacklist:        auth.NewBlacklistService(db),
		validator:        validation.NewValidator(),
		allowAdminSignup: allowAdminSignup,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest lists the profile fields a user may change.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}

// AuthResult is returned by register, login and password change.
type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"access_token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *AccountService) issue(user *model.User) (*AuthResult, error) {
	token, principal, err := s.jwtManager.Issue(user.ID, user.Email, user.Role, user.TokenVersion, 0)
	if err != nil {
		return nil, storeErr(err, "Failed to issue token")
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: principal.ExpiresAt,
	}, nil
}

func emailTaken() error {
	return apperror.Conflict("Email already registered", "An account with this email already exists").
		WithHelp("Log in instead, or register with a different email")
}

// Register creates a user, and for employers their employer profile, in one
// transaction.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Name = validation.SanitizeString(req.Name)
	req.Email = validation.NormalizeEmail(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = model.RoleStudent
	}

	if err := s.validator.Check(req); err != nil {
		return nil, err
	}
	if !model.IsValidRole(req.Role) {
		return nil, apperror.Validation("Invalid role", "Role must be one of student, employer or admin").
			WithHelp("Omit the role to register as a student")
	}
	if req.Role == model.RoleAdmin && !s.allowAdminSignup {
		return nil, forbidden("Admin accounts cannot be self-registered")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation("Invalid password", err.Error())
	}

	user := model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         req.Role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return storeErr(err, "Failed to check email")
		}
		if count > 0 {
			return emailTaken()
		}

		if err := tx.Create(&user).Error; err != nil {
			if isDuplicate(err) {
				return emailTaken()
			}
			return storeErr(err, "Failed to create user")
		}

		if user.Role == model.RoleEmployer {
			employer := model.Employer{
				UserID:       user.ID,
				Name:         user.Name,
				ContactEmail: user.Email,
			}
			if err := tx.Create(&employer).Error; err != nil {
				if isDuplicate(err) {
					return apperror.Conflict("Contact email in use", "Another employer profile already uses this contact email")
				}
				return storeErr(err, "Failed to create employer profile")
			}
			user.Employer = &employer
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("registered user %d (%s)", user.ID, user.Role)
	return s.issue(&user)
}

func invalidCredentials() error {
	return apperror.Unauthenticated("Invalid credentials", "Invalid email or password").
		WithHelp("Check your email and password and try again")
}

// dummyDigest is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
func (s *AccountService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

// Login verifies credentials. Unknown email and wrong password fail the same
// way.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = validation.NormalizeEmail(req.Email)
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Verify(req.Password, s.dummyDigest())
			return nil, invalidCredentials()
		}
		return nil, storeErr(err, "Failed to load user")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	return s.issue(&user)
}

// Me loads the user with their employer profile, if any.
func (s *AccountService) Me(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Preload("Employer").First(&user, userID).Error; err != nil {
		return nil, notFoundOr(err, "User", userID)
	}
	return &user, nil
}

// UpdateProfile changes the caller's display name.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*model.User, error) {
	req.Name = validation.SanitizeString(req.Name)
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("name", req.Name)
	if result.Error != nil {
		return nil, storeErr(result.Error, "Failed to update profile")
	}
	if result.RowsAffected == 0 {
		return nil, notFoundOr(gorm.ErrRecordNotFound, "User", userID)
	}

	return s.Me(ctx, userID)
}

// ChangePassword replaces the password and invalidates every token issued
// before it. A fresh token is returned.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) (*AuthResult, error) {
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return notFoundOr(err, "User", userID)
		}

		if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
			return apperror.Validation("Incorrect password", "The current password is incorrect").
				WithHelp("Enter your current password to set a new one")
		}

		digest, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return apperror.Validation("Invalid password", err.Error())
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"password_hash": digest,
			"token_version": gorm.Expr("token_version + 1"),
		}).Error; err != nil {
			return storeErr(err, "Failed to update password")
		}

		return tx.First(&user, userID).Error
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return nil, err
		}
		return nil, storeErr(err, "Failed to update password")
	}

	log.Infof("password changed for user %d", user.ID)
	return s.issue(&user)
}

// Logout revokes the presented token until it would have expired and prunes
// revocations that no longer matter.
func (s *AccountService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return apperror.Unauthenticated("Not authenticated", "No token to revoke")
	}

	if err := s.blacklist.RevokeToken(ctx, principal.TokenID, principal.UserID, principal.ExpiresAt, "logout"); err != nil {
		return storeErr(err, "Failed to revoke token")
	}

	if n, err := s.blacklist.CleanupExpiredTokens(ctx); err != nil {
		log.Warnf("blacklist cleanup failed: %v", err)
	} else if n > 0 {
		log.Infof("pruned %d expired blacklist entries", n)
	}
	return nil
}
