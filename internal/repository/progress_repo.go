package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressRepository interface {
	ListBySubject(ctx context.Context, subject string) ([]models.ProgressRecord, error)
	// Find returns ErrNotFound when the pair has no record.
	Find(ctx context.Context, subject string, techniqueID uuid.UUID) (*models.ProgressRecord, error)
	// Create returns ErrDuplicate when another writer inserted the same pair first.
	Create(ctx context.Context, record *models.ProgressRecord) error
	Patch(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ResetLearned clears the learned state of the subject's learned records and
	// returns how many changed. Notes are kept.
	ResetLearned(ctx context.Context, subject string, now time.Time) (int64, error)
}

type progressRepo struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) ListBySubject(ctx context.Context, subject string) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	if err := r.db.WithContext(ctx).
		Where("subject = ?", subject).
		Order("updated_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return records, nil
}

func (r *progressRepo) Find(ctx context.Context, subject string, techniqueID uuid.UUID) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	err := r.db.WithContext(ctx).
		Where("subject = ? AND technique_id = ?", subject, techniqueID).
		First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *progressRepo) Create(ctx context.Context, record *models.ProgressRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Technique").Create(record).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *progressRepo) Patch(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.ProgressRecord{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *progressRepo) ResetLearned(ctx context.Context, subject string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ProgressRecord{}).
		Where("subject = ? AND (learned = ? OR learned_at IS NOT NULL)", subject, true).
		Updates(map[string]interface{}{
			"learned":    false,
			"learned_at": nil,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset progress: %w", result.Error)
	}
	return result.RowsAffected, nil
}
