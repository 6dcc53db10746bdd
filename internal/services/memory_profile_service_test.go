package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlog/backend/internal/models"
)

func newProfileService(t *testing.T) *MemoryProfileService {
	t.Helper()
	s, err := NewMemoryProfileService(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestEnsureCreatesProfileOnFirstSignIn(t *testing.T) {
	s := newProfileService(t)
	ctx := context.Background()

	prof, err := s.Ensure(ctx, "u1", "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", prof.UID)
	assert.Equal(t, "Alice", prof.DisplayName)
	assert.False(t, prof.CreatedAt.IsZero())
}

func TestEnsureFillsBlanksButNeverOverwrites(t *testing.T) {
	s := newProfileService(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, "u1", "", "")
	require.NoError(t, err)

	// Claims arriving later fill what the first sign-in left blank.
	prof, err := s.Ensure(ctx, "u1", "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", prof.DisplayName)
	assert.Equal(t, "alice@example.com", prof.Email)

	// A user-chosen name is not clobbered by token claims.
	prof, err = s.Ensure(ctx, "u1", "Token Name", "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", prof.DisplayName)
	assert.Equal(t, "alice@example.com", prof.Email)
}

func TestProfileUpdate(t *testing.T) {
	s := newProfileService(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, "u1", "Alice", "alice@example.com")
	require.NoError(t, err)

	name := "アリス"
	prof, err := s.Update(ctx, "u1", &models.UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "アリス", prof.DisplayName)
	assert.Equal(t, "alice@example.com", prof.Email)

	_, err = s.Update(ctx, "nobody", &models.UpdateProfileRequest{DisplayName: &name})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetAllSortsByDisplayName(t *testing.T) {
	s := newProfileService(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, "u2", "Bob", "bob@example.com")
	require.NoError(t, err)
	_, err = s.Ensure(ctx, "u1", "Alice", "alice@example.com")
	require.NoError(t, err)

	profiles, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Alice", profiles[0].DisplayName)
	assert.Equal(t, "Bob", profiles[1].DisplayName)
}
