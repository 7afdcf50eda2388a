package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seedLockKey is the Postgres advisory lock id taken while seeding the catalog.
const seedLockKey = 0x626a6a5f73656564

type TechniqueRepository interface {
	// List returns the whole catalog in seed order.
	List(ctx context.Context) ([]models.Technique, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	// SeedIfEmpty inserts techniques only when the catalog has no rows.
	// It reports how many rows were inserted and whether the catalog was already seeded.
	SeedIfEmpty(ctx context.Context, techniques []models.Technique) (inserted int, alreadySeeded bool, err error)
}

type techniqueRepo struct {
	db *gorm.DB
}

func NewTechniqueRepository(db *gorm.DB) TechniqueRepository {
	return &techniqueRepo{db: db}
}

func (r *techniqueRepo) List(ctx context.Context) ([]models.Technique, error) {
	var techniques []models.Technique
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("created_at ASC").
		Find(&techniques).Error; err != nil {
		return nil, fmt.Errorf("failed to list techniques: %w", err)
	}
	return techniques, nil
}

func (r *techniqueRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Technique{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up technique: %w", err)
	}
	return count > 0, nil
}

func (r *techniqueRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Technique{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count techniques: %w", err)
	}
	return count, nil
}

func (r *techniqueRepo) SeedIfEmpty(ctx context.Context, techniques []models.Technique) (int, bool, error) {
	inserted := 0
	alreadySeeded := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent seeders across processes until commit.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", seedLockKey).Error; err != nil {
			return fmt.Errorf("failed to acquire seed lock: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Technique{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count techniques: %w", err)
		}
		if count > 0 {
			alreadySeeded = true
			return nil
		}
		if len(techniques) == 0 {
			return nil
		}

		if err := tx.CreateInBatches(&techniques, 100).Error; err != nil {
			return fmt.Errorf("failed to insert techniques: %w", err)
		}
		inserted = len(techniques)
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return inserted, alreadySeeded, nil
}
