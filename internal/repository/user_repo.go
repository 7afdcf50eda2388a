package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindBySubject(ctx context.Context, subject string) (*models.UserProfile, error)
	Create(ctx context.Context, user *models.UserProfile) error
	Save(ctx context.Context, user *models.UserProfile) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindBySubject(ctx context.Context, subject string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.UserProfile) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) Save(ctx context.Context, user *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}
