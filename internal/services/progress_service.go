package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository"
	"github.com/google/uuid"
)

// ProgressService reads the catalog joined with a caller's progress and applies
// progress updates.
type ProgressService struct {
	catalog    *CatalogService
	techniques repository.TechniqueRepository
	progress   repository.ProgressRepository
	locks      *keyLocks
	now        func() time.Time
}

func NewProgressService(catalog *CatalogService, techniques repository.TechniqueRepository, progress repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		catalog:    catalog,
		techniques: techniques,
		progress:   progress,
		locks:      newKeyLocks(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListTechniques returns every catalog technique with the caller's progress applied.
func (s *ProgressService) ListTechniques(ctx context.Context, caller identity.Caller) (items []dto.EnrichedTechnique, err error) {
	defer func(start time.Time) { metrics.Observe("list_techniques", start, err) }(time.Now())
	return s.list(ctx, caller, nil)
}

// ListTechniquesByCategory is ListTechniques restricted to one exact category.
func (s *ProgressService) ListTechniquesByCategory(ctx context.Context, caller identity.Caller, category string) (items []dto.EnrichedTechnique, err error) {
	defer func(start time.Time) { metrics.Observe("list_techniques_by_category", start, err) }(time.Now())
	return s.list(ctx, caller, &category)
}

// Summary computes completion stats over the caller's list, optionally for one category.
func (s *ProgressService) Summary(ctx context.Context, caller identity.Caller, category *string) (summary *dto.ProgressSummary, err error) {
	defer func(start time.Time) { metrics.Observe("progress_summary", start, err) }(time.Now())

	items, err := s.list(ctx, caller, category)
	if err != nil {
		return nil, err
	}
	stats := Summarize(items)
	return &stats, nil
}

func (s *ProgressService) list(ctx context.Context, caller identity.Caller, category *string) ([]dto.EnrichedTechnique, error) {
	if caller.Anonymous() {
		return nil, ErrUnauthenticated
	}

	techniques, err := s.catalog.Techniques(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if category != nil {
		techniques = FilterByCategory(techniques, *category)
	}

	records, err := s.progress.ListBySubject(ctx, caller.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return Enrich(techniques, records), nil
}

// SetLearned records whether the caller has learned a technique. learned_at is stamped
// when the flag turns true and cleared when it is set false. Returns the progress record id.
func (s *ProgressService) SetLearned(ctx context.Context, caller identity.Caller, techniqueID uuid.UUID, learned bool) (id uuid.UUID, err error) {
	defer func(start time.Time) { metrics.Observe("set_learned", start, err) }(time.Now())
	if caller.Anonymous() {
		return uuid.Nil, ErrUnauthenticated
	}

	now := s.now()
	var learnedAt *time.Time
	if learned {
		learnedAt = &now
	}

	return s.upsert(ctx, caller.Subject, techniqueID,
		models.ProgressRecord{Learned: learned, LearnedAt: learnedAt, UpdatedAt: now},
		func(existing *models.ProgressRecord) map[string]interface{} {
			fields := map[string]interface{}{
				"learned":    learned,
				"updated_at": now,
			}
			// Repeating learned=true keeps the first learned_at.
			if !learned || !existing.Learned || existing.LearnedAt == nil {
				fields["learned_at"] = learnedAt
			}
			return fields
		},
	)
}

// SetNotes stores notes exactly as given, including the empty string.
func (s *ProgressService) SetNotes(ctx context.Context, caller identity.Caller, techniqueID uuid.UUID, notes string) (id uuid.UUID, err error) {
	defer func(start time.Time) { metrics.Observe("set_notes", start, err) }(time.Now())
	if caller.Anonymous() {
		return uuid.Nil, ErrUnauthenticated
	}

	now := s.now()
	return s.upsert(ctx, caller.Subject, techniqueID,
		models.ProgressRecord{Learned: false, Notes: &notes, UpdatedAt: now},
		func(*models.ProgressRecord) map[string]interface{} {
			return map[string]interface{}{
				"notes":      notes,
				"updated_at": now,
			}
		},
	)
}

// ResetProgress marks the caller's learned records as not learned and returns how
// many were reset. Notes survive.
func (s *ProgressService) ResetProgress(ctx context.Context, caller identity.Caller) (n int64, err error) {
	defer func(start time.Time) { metrics.Observe("reset_progress", start, err) }(time.Now())
	if caller.Anonymous() {
		return 0, ErrUnauthenticated
	}

	n, err = s.progress.ResetLearned(ctx, caller.Subject, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to reset progress: %w", err)
	}
	return n, nil
}

// upsert patches the (subject, technique) record or inserts fresh when none exists.
func (s *ProgressService) upsert(ctx context.Context, subject string, techniqueID uuid.UUID, fresh models.ProgressRecord, patch func(existing *models.ProgressRecord) map[string]interface{}) (uuid.UUID, error) {
	exists, err := s.techniques.Exists(ctx, techniqueID)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, ErrTechniqueNotFound
	}

	unlock := s.locks.lock(subject + "/" + techniqueID.String())
	defer unlock()

	existing, err := s.progress.Find(ctx, subject, techniqueID)
	if errors.Is(err, repository.ErrNotFound) {
		fresh.ID = uuid.New()
		fresh.Subject = subject
		fresh.TechniqueID = techniqueID
		fresh.CreatedAt = fresh.UpdatedAt

		err = s.progress.Create(ctx, &fresh)
		if err == nil {
			return fresh.ID, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return uuid.Nil, fmt.Errorf("failed to create progress: %w", err)
		}
		// Lost an insert race to another process; the winner's row gets the patch.
		existing, err = s.progress.Find(ctx, subject, techniqueID)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find progress: %w", err)
	}

	if err := s.progress.Patch(ctx, existing.ID, patch(existing)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return existing.ID, nil
}
