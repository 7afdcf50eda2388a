package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(items []dto.EnrichedTechnique) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestListTechniques_OnePerCatalogEntryInOrder(t *testing.T) {
	f := newFixture(t)

	items, err := f.svc.ListTechniques(context.Background(), alice)
	require.NoError(t, err)

	want := []string{"Parry and Counter", "Cover and Crash Entry", "Slip and Counter", "Clinch Control", "Duck and Counter"}
	if diff := cmp.Diff(want, names(items)); diff != "" {
		t.Fatalf("catalog order mismatch (-want +got):\n%s", diff)
	}
	for _, it := range items {
		assert.False(t, it.Learned)
		assert.Nil(t, it.LearnedAt)
		assert.Nil(t, it.Notes)
		assert.Nil(t, it.ProgressID)
	}
}

func TestListTechniques_RequiresIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListTechniques(context.Background(), identity.Caller{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.ListTechniquesByCategory(context.Background(), identity.Caller{}, "Clinch")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSetLearned_ThenListShowsLearned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)
	target := techs[2]

	before := f.clock.now()
	id, err := f.svc.SetLearned(ctx, alice, target.ID, true)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	items, err := f.svc.ListTechniques(ctx, alice)
	require.NoError(t, err)
	got := items[2]
	assert.Equal(t, target.ID, got.ID)
	assert.True(t, got.Learned)
	require.NotNil(t, got.LearnedAt)
	assert.False(t, got.LearnedAt.Before(before))
	require.NotNil(t, got.ProgressID)
	assert.Equal(t, id, *got.ProgressID)
}

func TestSetLearned_FalseClearsLearnedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	first, err := f.svc.SetLearned(ctx, alice, techs[0].ID, true)
	require.NoError(t, err)
	f.clock.advance(time.Minute)
	second, err := f.svc.SetLearned(ctx, alice, techs[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rec, err := f.progress.Find(ctx, alice.Subject, techs[0].ID)
	require.NoError(t, err)
	assert.False(t, rec.Learned)
	assert.Nil(t, rec.LearnedAt)
	assert.Equal(t, f.clock.now(), rec.UpdatedAt)
}

func TestSetLearned_TwiceKeepsOneRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	first, err := f.svc.SetLearned(ctx, alice, techs[1].ID, true)
	require.NoError(t, err)
	stamped := f.clock.now()

	f.clock.advance(time.Hour)
	second, err := f.svc.SetLearned(ctx, alice, techs[1].ID, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.progress.Count(alice.Subject, techs[1].ID))

	rec, err := f.progress.Find(ctx, alice.Subject, techs[1].ID)
	require.NoError(t, err)
	assert.True(t, rec.Learned)
	require.NotNil(t, rec.LearnedAt)
	assert.Equal(t, stamped, *rec.LearnedAt)
	assert.Equal(t, stamped.Add(time.Hour), rec.UpdatedAt)
}

func TestSetLearned_ConcurrentCallsKeepOneRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(learned bool) {
			defer wg.Done()
			_, err := f.svc.SetLearned(ctx, alice, techs[0].ID, learned)
			assert.NoError(t, err)
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, f.progress.Count(alice.Subject, techs[0].ID))
	assert.Zero(t, f.svc.locks.size())
}

func TestSetLearned_LostInsertRacePatchesWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	winner := uuid.New()
	f.progress.BeforeCreate = func(*models.ProgressRecord) {
		f.progress.Insert(models.ProgressRecord{ID: winner, Subject: alice.Subject, TechniqueID: techs[0].ID})
	}

	id, err := f.svc.SetLearned(ctx, alice, techs[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, winner, id)

	rec, err := f.progress.Find(ctx, alice.Subject, techs[0].ID)
	require.NoError(t, err)
	assert.True(t, rec.Learned)
	assert.NotNil(t, rec.LearnedAt)
	assert.Equal(t, 1, f.progress.Count(alice.Subject, techs[0].ID))
}

func TestUpdates_RejectUnknownTechnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := f.svc.SetLearned(ctx, alice, missing, true)
	assert.ErrorIs(t, err, ErrTechniqueNotFound)

	_, err = f.svc.SetNotes(ctx, alice, missing, "x")
	assert.ErrorIs(t, err, ErrTechniqueNotFound)

	assert.Zero(t, f.progress.Count(alice.Subject, missing))
}

func TestUpdates_RequireIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	_, err := f.svc.SetLearned(ctx, identity.Caller{}, techs[0].ID, true)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.svc.SetNotes(ctx, identity.Caller{}, techs[0].ID, "x")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.svc.ResetProgress(ctx, identity.Caller{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSetNotes_CreatesUnlearnedRecordAndKeepsExactText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	id, err := f.svc.SetNotes(ctx, alice, techs[3].ID, "  grip the triceps  ")
	require.NoError(t, err)

	rec, err := f.progress.Find(ctx, alice.Subject, techs[3].ID)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.False(t, rec.Learned)
	assert.Nil(t, rec.LearnedAt)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, "  grip the triceps  ", *rec.Notes)

	_, err = f.svc.SetNotes(ctx, alice, techs[3].ID, "")
	require.NoError(t, err)
	rec, _ = f.progress.Find(ctx, alice.Subject, techs[3].ID)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, "", *rec.Notes)
}

func TestSetNotes_DoesNotTouchLearned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	_, err := f.svc.SetLearned(ctx, alice, techs[0].ID, true)
	require.NoError(t, err)
	_, err = f.svc.SetNotes(ctx, alice, techs[0].ID, "frame first")
	require.NoError(t, err)

	rec, _ := f.progress.Find(ctx, alice.Subject, techs[0].ID)
	assert.True(t, rec.Learned)
	assert.NotNil(t, rec.LearnedAt)
	assert.Equal(t, "frame first", *rec.Notes)
}

func TestResetProgress_ClearsLearnedKeepsNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)
	bob := identity.Caller{Subject: "user_bob"}

	for _, tech := range techs[:3] {
		_, err := f.svc.SetLearned(ctx, alice, tech.ID, true)
		require.NoError(t, err)
		_, err = f.svc.SetNotes(ctx, alice, tech.ID, "note "+tech.Name)
		require.NoError(t, err)
	}
	_, err := f.svc.SetLearned(ctx, bob, techs[0].ID, true)
	require.NoError(t, err)

	n, err := f.svc.ResetProgress(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	items, err := f.svc.ListTechniques(ctx, alice)
	require.NoError(t, err)
	for _, it := range items[:3] {
		assert.False(t, it.Learned)
		assert.Nil(t, it.LearnedAt)
		require.NotNil(t, it.Notes)
		assert.Equal(t, "note "+it.Name, *it.Notes)
	}

	bobItems, err := f.svc.ListTechniques(ctx, bob)
	require.NoError(t, err)
	assert.True(t, bobItems[0].Learned)
}

func TestResetProgress_CountsOnlyLearnedRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)

	for _, tech := range techs[:2] {
		_, err := f.svc.SetLearned(ctx, alice, tech.ID, true)
		require.NoError(t, err)
	}
	_, err := f.svc.SetNotes(ctx, alice, techs[2].ID, "drill on mitts")
	require.NoError(t, err)
	noteStamp := f.clock.now()

	f.clock.advance(time.Hour)
	n, err := f.svc.ResetProgress(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	rec, err := f.progress.Find(ctx, alice.Subject, techs[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "drill on mitts", *rec.Notes)
	assert.Equal(t, noteStamp, rec.UpdatedAt)

	n, err = f.svc.ResetProgress(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListTechniquesByCategory_IsOrderedSubset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)
	_, err := f.svc.SetLearned(ctx, alice, techs[2].ID, true)
	require.NoError(t, err)

	all, err := f.svc.ListTechniques(ctx, alice)
	require.NoError(t, err)
	filtered, err := f.svc.ListTechniquesByCategory(ctx, alice, "Punch Defense")
	require.NoError(t, err)

	var want []dto.EnrichedTechnique
	for _, it := range all {
		if it.Category == "Punch Defense" {
			want = append(want, it)
		}
	}
	if diff := cmp.Diff(want, filtered); diff != "" {
		t.Fatalf("filtered list mismatch (-want +got):\n%s", diff)
	}

	none, err := f.svc.ListTechniquesByCategory(ctx, alice, "punch defense")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)
	_, err := f.svc.SetLearned(ctx, alice, techs[0].ID, true)
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, dto.CompletionStat{Learned: 1, Total: 5, Percentage: 20}, summary.Overall)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "Punch Defense", summary.Categories[0].Category)
	assert.Equal(t, 33, summary.Categories[0].Percentage)

	clinch := "Clinch"
	summary, err = f.svc.Summary(ctx, alice, &clinch)
	require.NoError(t, err)
	assert.Equal(t, dto.CompletionStat{Learned: 0, Total: 2, Percentage: 0}, summary.Overall)
}

func TestStorageErrorsPropagate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	techs, _ := f.techniques.List(ctx)
	boom := errors.New("connection reset")
	f.progress.Err = boom

	_, err := f.svc.ListTechniques(ctx, alice)
	assert.ErrorIs(t, err, boom)
	_, err = f.svc.SetLearned(ctx, alice, techs[0].ID, true)
	assert.ErrorIs(t, err, boom)
	_, err = f.svc.ResetProgress(ctx, alice)
	assert.ErrorIs(t, err, boom)
}
