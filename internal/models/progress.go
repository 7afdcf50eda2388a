package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord is one user's overlay on one technique.
// At most one row exists per (subject, technique).
type ProgressRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Subject     string     `gorm:"size:255;not null;uniqueIndex:idx_progress_subject_technique,priority:1" json:"subject"`
	TechniqueID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_subject_technique,priority:2" json:"technique_id"`
	Learned     bool       `gorm:"not null;default:false" json:"learned"`
	LearnedAt   *time.Time `json:"learned_at,omitempty"`
	Notes       *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Technique   Technique  `gorm:"foreignKey:TechniqueID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}
