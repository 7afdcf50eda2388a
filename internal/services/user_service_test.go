package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newUserService(t *testing.T) (*UserService, *repotest.UserRepo, *fakeClock) {
	t.Helper()
	repo := repotest.NewUserRepo()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewUserService(repo)
	svc.now = clock.now
	return svc, repo, clock
}

func TestSync_CreatesProfile(t *testing.T) {
	svc, repo, clock := newUserService(t)
	ctx := context.Background()

	id, err := svc.Sync(ctx, &dto.SyncUserRequest{
		Subject:   "user_2abc",
		Email:     "alice@example.com",
		FirstName: strPtr("Alice"),
		ImageURL:  strPtr("https://img.example.com/a.png"),
	})
	require.NoError(t, err)

	u, err := repo.FindBySubject(ctx, "user_2abc")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, clock.now(), u.CreatedAt)
	assert.Equal(t, clock.now(), u.LastLoginAt)
	assert.Equal(t, "Alice", *u.FirstName)
}

func TestSync_IsIdempotentAndRefreshes(t *testing.T) {
	svc, repo, clock := newUserService(t)
	ctx := context.Background()
	req := &dto.SyncUserRequest{Subject: "user_2abc", Email: "alice@example.com"}

	first, err := svc.Sync(ctx, req)
	require.NoError(t, err)
	created := clock.now()

	clock.advance(2 * time.Hour)
	second, err := svc.Sync(ctx, &dto.SyncUserRequest{Subject: "user_2abc", Email: "alice@new.example.com", Name: strPtr("Alice A")})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.Len())

	u, _ := repo.FindBySubject(ctx, "user_2abc")
	assert.Equal(t, "alice@new.example.com", u.Email)
	assert.Equal(t, "Alice A", *u.Name)
	assert.Equal(t, created, u.CreatedAt)
	assert.Equal(t, clock.now(), u.LastLoginAt)
}

func TestSync_RequiresEmail(t *testing.T) {
	svc, repo, _ := newUserService(t)

	_, err := svc.Sync(context.Background(), &dto.SyncUserRequest{Subject: "user_2abc"})
	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.Contains(t, err.Error(), "email failed required")
	assert.Zero(t, repo.Len())
}

func TestSync_Validation(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.SyncUserRequest
	}{
		{"missing subject", dto.SyncUserRequest{Email: "a@example.com"}},
		{"bad email", dto.SyncUserRequest{Subject: "s", Email: "not-an-email"}},
		{"bad image url", dto.SyncUserRequest{Subject: "s", Email: "a@example.com", ImageURL: strPtr("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Sync(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
	assert.Zero(t, repo.Len())
}
