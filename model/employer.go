package model

import "time"

// Employer is the hiring profile owned by a user with the employer role.
type Employer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	DepartmentID *uint     `gorm:"index" json:"department_id"`
	ContactEmail string    `gorm:"size:120;uniqueIndex;not null" json:"contact_email"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Department      *Department      `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Jobs            []Job            `gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews         []Review         `gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE" json:"-"`
	EmployerReviews []EmployerReview `gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE" json:"-"`
}

// Department groups employers; deleting one leaves its employers unassigned.
type Department struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Office string `gorm:"size:50" json:"office"`
	Phone  string `gorm:"size:50" json:"phone"`

	Employers []Employer `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"-"`
}
