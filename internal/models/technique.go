package models

import (
	"time"

	"github.com/google/uuid"
)

// Technique is a catalog entry shared by every user. Rows are written only by seeding.
type Technique struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Category  string    `gorm:"size:255;not null;index" json:"category"`
	VideoURL  *string   `gorm:"size:1024" json:"video_url,omitempty"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	Position  int       `gorm:"not null;default:0;index" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Technique) TableName() string {
	return "techniques"
}
