package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	locks    *keyLocks
	now      func() time.Time
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
		locks:    newKeyLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Sync upserts the profile for req.Subject. Existing profiles get their mutable fields and
// last-login time refreshed; new ones start with created_at equal to last_login_at.
func (s *UserService) Sync(ctx context.Context, req *dto.SyncUserRequest) (id uuid.UUID, err error) {
	defer func(start time.Time) { metrics.Observe("sync_user", start, err) }(time.Now())

	if err := s.validate.Struct(req); err != nil {
		return uuid.Nil, validationError(err)
	}

	unlock := s.locks.lock(req.Subject)
	defer unlock()

	now := s.now()
	user, err := s.repo.FindBySubject(ctx, req.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		user = &models.UserProfile{
			ID:          uuid.New(),
			Subject:     req.Subject,
			CreatedAt:   now,
			LastLoginAt: now,
		}
		applyProfile(user, req)

		err = s.repo.Create(ctx, user)
		if err == nil {
			return user.ID, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, fmt.Errorf("failed to create user profile: %w", err)
		}
		user, err = s.repo.FindBySubject(ctx, req.Subject)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find user profile: %w", err)
	}

	applyProfile(user, req)
	user.LastLoginAt = now
	if err := s.repo.Save(ctx, user); err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func applyProfile(user *models.UserProfile, req *dto.SyncUserRequest) {
	user.Email = req.Email
	user.Name = req.Name
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.ImageURL = req.ImageURL
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(msgs, ", "))
}
