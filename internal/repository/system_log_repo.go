package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"gorm.io/gorm"
)

// SystemLogRepository persists batched log records and enforces retention.
type SystemLogRepository struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) *SystemLogRepository {
	return &SystemLogRepository{db: db}
}

func (r *SystemLogRepository) WriteLogs(ctx context.Context, batch []models.SystemLog) error {
	if len(batch) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(batch, 50).Error
}

func (r *SystemLogRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
