package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository"
	"golang.org/x/sync/singleflight"
)

const (
	msgAlreadySeeded = "Techniques already seeded"
	flightCatalog    = "catalog"
	catalogLoadLimit = 10 * time.Second
)

type CatalogService struct {
	repo        repository.TechniqueRepository
	cache       cache.CatalogCache
	definitions []catalog.Definition

	flight singleflight.Group
	seedMu sync.Mutex
}

func NewCatalogService(repo repository.TechniqueRepository, c cache.CatalogCache, definitions []catalog.Definition) *CatalogService {
	if c == nil {
		c = cache.Nop{}
	}
	return &CatalogService{
		repo:        repo,
		cache:       c,
		definitions: definitions,
	}
}

// Seed inserts the configured definitions when the catalog is empty.
// A non-empty catalog makes it a no-op reporting "already seeded".
func (s *CatalogService) Seed(ctx context.Context) (resp *dto.SeedResponse, err error) {
	defer func(start time.Time) { metrics.Observe("seed_catalog", start, err) }(time.Now())

	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	inserted, alreadySeeded, err := s.repo.SeedIfEmpty(ctx, catalog.ToModels(s.definitions))
	if err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	if alreadySeeded {
		return &dto.SeedResponse{Message: msgAlreadySeeded}, nil
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
	metrics.Seeded(inserted)
	slog.Info("seeded techniques", "count", inserted)

	return &dto.SeedResponse{
		Message:  fmt.Sprintf("Seeded %d techniques", inserted),
		Inserted: inserted,
	}, nil
}

// Techniques returns the catalog in seed order. The slice may be shared between
// concurrent callers and must not be modified.
func (s *CatalogService) Techniques(ctx context.Context) ([]models.Technique, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		slog.Warn("catalog cache read failed", "error", err)
	}
	if ok {
		metrics.CacheHit()
		return cached, nil
	}
	metrics.CacheMiss()

	// The load is shared by every waiting caller, so it must outlive the first one's request.
	v, err, _ := s.flight.Do(flightCatalog, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogLoadLimit)
		defer cancel()

		techniques, err := s.repo.List(loadCtx)
		if err != nil {
			return nil, err
		}
		if len(techniques) > 0 {
			if err := s.cache.Set(loadCtx, techniques); err != nil {
				slog.Warn("catalog cache write failed", "error", err)
			}
		}
		return techniques, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Technique), nil
}

// Categories lists distinct categories in the order they first appear in the catalog.
func (s *CatalogService) Categories(ctx context.Context) (categories []string, err error) {
	defer func(start time.Time) { metrics.Observe("list_categories", start, err) }(time.Now())

	techniques, err := s.Techniques(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories = make([]string, 0)
	for _, t := range techniques {
		if !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
	}
	return categories, nil
}

func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
