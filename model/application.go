package model

import "time"

const (
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusReviewed  = "reviewed"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
)

var applicationTransitions = map[string][]string{
	ApplicationStatusSubmitted: {ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusReviewed:  {ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusAccepted:  {},
	ApplicationStatusRejected:  {},
}

// IsKnownApplicationStatus reports whether status is an application status.
func IsKnownApplicationStatus(status string) bool {
	_, ok := applicationTransitions[status]
	return ok
}

// CanTransitionApplication reports whether an application may move from one
// status to another. Accepted and rejected are final.
func CanTransitionApplication(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application is a student's application to a job. A student applies to a
// job at most once.
type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;uniqueIndex:idx_applications_job_user" json:"job_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_applications_job_user;index" json:"user_id"`
	Status      string    `gorm:"size:30;not null;default:submitted;index" json:"status"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`
	ResumeURL   string    `gorm:"size:255" json:"resume_url"`
	SubmittedAt time.Time `gorm:"not null;<-:create" json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Job            *Job            `gorm:"foreignKey:JobID" json:"job,omitempty"`
	User           *User           `gorm:"foreignKey:UserID" json:"applicant,omitempty"`
	EmployerReview *EmployerReview `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}
