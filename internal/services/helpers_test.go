package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository/repotest"
)

var alice = identity.Caller{Subject: "user_alice", Email: "alice@example.com"}

type fixture struct {
	techniques *repotest.TechniqueRepo
	progress   *repotest.ProgressRepo
	catalog    *CatalogService
	svc        *ProgressService
	clock      *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func catalogRows() []models.Technique {
	return []models.Technique{
		{Name: "Parry and Counter", Category: "Punch Defense"},
		{Name: "Cover and Crash Entry", Category: "Clinch"},
		{Name: "Slip and Counter", Category: "Punch Defense"},
		{Name: "Clinch Control", Category: "Clinch"},
		{Name: "Duck and Counter", Category: "Punch Defense"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		techniques: repotest.NewTechniqueRepo(catalogRows()...),
		progress:   repotest.NewProgressRepo(),
		clock:      &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
	f.catalog = NewCatalogService(f.techniques, nil, nil)
	f.svc = NewProgressService(f.catalog, f.techniques, f.progress)
	f.svc.now = f.clock.now
	return f
}
