package model

import "time"

// JWTTokenBlacklist stores revoked token ids until the token would have
// expired anyway.
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Reason    string    `gorm:"size:100" json:"reason"` // logout, password_change
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}

// AllModels returns every persisted model in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Department{},
		&Employer{},
		&Job{},
		&Application{},
		&Review{},
		&EmployerReview{},
		&Resume{},
		&JWTTokenBlacklist{},
	}
}
