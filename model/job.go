package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusFilled = "filled"
)

// jobTransitions lists the statuses each job status may move to.
var jobTransitions = map[string][]string{
	JobStatusOpen:   {JobStatusClosed, JobStatusFilled},
	JobStatusClosed: {JobStatusOpen},
	JobStatusFilled: {},
}

// IsKnownJobStatus reports whether status is a job status.
func IsKnownJobStatus(status string) bool {
	_, ok := jobTransitions[status]
	return ok
}

// CanTransitionJob reports whether a job may move from one status to another.
func CanTransitionJob(from, to string) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Job is a posting owned by an employer.
type Job struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	EmployerID     uint            `gorm:"not null;index" json:"employer_id"`
	Title          string          `gorm:"size:150;not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Location       string          `gorm:"size:120" json:"location"`
	EmploymentType string          `gorm:"size:50;index" json:"employment_type"`
	Remote         bool            `gorm:"not null;default:false" json:"remote"`
	StartDate      *datatypes.Date `json:"start_date"`
	EndDate        *datatypes.Date `json:"end_date"`
	Spots          int             `gorm:"not null" json:"spots"`
	Status         string          `gorm:"size:30;not null;default:open;index" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Employer        *Employer        `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
	Applications    []Application    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews         []Review         `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	EmployerReviews []EmployerReview `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}
