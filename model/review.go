package model

import "time"

// Review is a student's rating of a job. One per student per job.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	JobID      uint      `gorm:"not null;uniqueIndex:idx_reviews_job_user" json:"job_id"`
	EmployerID uint      `gorm:"not null;index" json:"employer_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_job_user;index" json:"user_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"reviewer,omitempty"`
}

// EmployerReview is an employer's rating of a student whose application was
// accepted. One per application.
type EmployerReview struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;uniqueIndex" json:"application_id"`
	JobID         uint      `gorm:"not null;index" json:"job_id"`
	StudentID     uint      `gorm:"not null;index" json:"student_id"`
	EmployerID    uint      `gorm:"not null;index" json:"employer_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// Resume is the metadata row for an uploaded resume blob. ID is the blob key.
type Resume struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	ContentType  string    `gorm:"size:120" json:"content_type"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
