package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile mirrors the identity provider's view of a user, keyed by subject.
type UserProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Subject     string    `gorm:"size:255;not null;uniqueIndex" json:"subject"`
	Email       string    `gorm:"size:255" json:"email"`
	Name        *string   `gorm:"size:255" json:"name,omitempty"`
	FirstName   *string   `gorm:"size:255" json:"first_name,omitempty"`
	LastName    *string   `gorm:"size:255" json:"last_name,omitempty"`
	ImageURL    *string   `gorm:"size:1024" json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `gorm:"not null;index" json:"last_login_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
