package model

import (
	"time"
)

const (
	RoleStudent  = "student"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// Roles lists every role a user may hold.
var Roles = []string{RoleStudent, RoleEmployer, RoleAdmin}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a registered account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:30;not null;default:student;index" json:"role"`
	TokenVersion int       `gorm:"not null;default:0" json:"-"` // Increment to invalidate all user tokens
	CreatedAt    time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Employer        *Employer           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"employer,omitempty"`
	Applications    []Application       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews         []Review            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ReceivedReviews []EmployerReview    `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Resumes         []Resume            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist  []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsStudent reports whether the user has the student role.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsEmployer reports whether the user has the employer role.
func (u *User) IsEmployer() bool { return u.Role == RoleEmployer }

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
