// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository"
	"github.com/google/uuid"
)

type TechniqueRepo struct {
	mu         sync.Mutex
	techniques []models.Technique
	SeedCalls  int
	Err        error
}

var _ repository.TechniqueRepository = (*TechniqueRepo)(nil)

func NewTechniqueRepo(techniques ...models.Technique) *TechniqueRepo {
	r := &TechniqueRepo{}
	for i, t := range techniques {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		if t.Position == 0 {
			t.Position = i + 1
		}
		r.techniques = append(r.techniques, t)
	}
	return r
}

func (r *TechniqueRepo) List(ctx context.Context) ([]models.Technique, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]models.Technique, len(r.techniques))
	copy(out, r.techniques)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *TechniqueRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	for _, t := range r.techniques {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *TechniqueRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.techniques)), r.Err
}

func (r *TechniqueRepo) SeedIfEmpty(ctx context.Context, techniques []models.Technique) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SeedCalls++
	if r.Err != nil {
		return 0, false, r.Err
	}
	if len(r.techniques) > 0 {
		return 0, true, nil
	}
	for _, t := range techniques {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		t.CreatedAt = time.Now()
		r.techniques = append(r.techniques, t)
	}
	return len(techniques), false, nil
}

type progressKey struct {
	subject     string
	techniqueID uuid.UUID
}

type ProgressRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]models.ProgressRecord
	order   []uuid.UUID
	Err     error

	// BeforeCreate runs before each insert, letting tests simulate a racing writer.
	BeforeCreate func(record *models.ProgressRecord)
}

var _ repository.ProgressRepository = (*ProgressRepo)(nil)

func NewProgressRepo() *ProgressRepo {
	return &ProgressRepo{records: make(map[uuid.UUID]models.ProgressRecord)}
}

func (r *ProgressRepo) ListBySubject(ctx context.Context, subject string) ([]models.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []models.ProgressRecord
	for _, id := range r.order {
		if rec := r.records[id]; rec.Subject == subject {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *ProgressRepo) Find(ctx context.Context, subject string, techniqueID uuid.UUID) (*models.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, id := range r.order {
		rec := r.records[id]
		if rec.Subject == subject && rec.TechniqueID == techniqueID {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ProgressRepo) Create(ctx context.Context, record *models.ProgressRecord) error {
	if r.BeforeCreate != nil {
		hook := r.BeforeCreate
		r.BeforeCreate = nil
		hook(record)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	key := progressKey{record.Subject, record.TechniqueID}
	for _, id := range r.order {
		rec := r.records[id]
		if (progressKey{rec.Subject, rec.TechniqueID}) == key {
			return repository.ErrDuplicate
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.UpdatedAt
	}
	r.records[record.ID] = *record
	r.order = append(r.order, record.ID)
	return nil
}

func (r *ProgressRepo) Patch(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	rec, ok := r.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "learned":
			rec.Learned = v.(bool)
		case "learned_at":
			rec.LearnedAt = asTimePtr(v)
		case "notes":
			s := v.(string)
			rec.Notes = &s
		case "updated_at":
			rec.UpdatedAt = v.(time.Time)
		}
	}
	r.records[id] = rec
	return nil
}

func (r *ProgressRepo) ResetLearned(ctx context.Context, subject string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for id, rec := range r.records {
		if rec.Subject != subject || (!rec.Learned && rec.LearnedAt == nil) {
			continue
		}
		rec.Learned = false
		rec.LearnedAt = nil
		rec.UpdatedAt = now
		r.records[id] = rec
		n++
	}
	return n, nil
}

// Count returns the number of records held for the pair.
func (r *ProgressRepo) Count(subject string, techniqueID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Subject == subject && rec.TechniqueID == techniqueID {
			n++
		}
	}
	return n
}

// Insert stores a record directly, bypassing duplicate checks.
func (r *ProgressRepo) Insert(record models.ProgressRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.records[record.ID] = record
	r.order = append(r.order, record.ID)
}

func asTimePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case *time.Time:
		return t
	case time.Time:
		return &t
	}
	return nil
}

type UserRepo struct {
	mu    sync.Mutex
	users map[string]models.UserProfile
	Err   error
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]models.UserProfile)}
}

func (r *UserRepo) FindBySubject(ctx context.Context, subject string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[subject]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.users[user.Subject]; ok {
		return repository.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Subject] = *user
	return nil
}

func (r *UserRepo) Save(ctx context.Context, user *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.users[user.Subject] = *user
	return nil
}

// Len returns the number of stored profiles.
func (r *UserRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
