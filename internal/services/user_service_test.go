package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlog/backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	s, err := NewUserService(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	registered, err := s.Register(ctx, &models.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.UID)
	assert.Equal(t, "Alice", registered.DisplayName)

	loggedIn, err := s.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.UID, loggedIn.UID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, err := NewUserService(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Register(ctx, &models.RegisterRequest{Email: "alice@example.com", Password: "secret123", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = s.Register(ctx, &models.RegisterRequest{Email: "alice@example.com", Password: "other456", DisplayName: "Imposter"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginFailures(t *testing.T) {
	s, err := NewUserService(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Register(ctx, &models.RegisterRequest{Email: "alice@example.com", Password: "secret123", DisplayName: "Alice"})
	require.NoError(t, err)

	_, err = s.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAccountsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewUserService(dir)
	require.NoError(t, err)
	_, err = s.Register(ctx, &models.RegisterRequest{Email: "alice@example.com", Password: "secret123", DisplayName: "Alice"})
	require.NoError(t, err)

	reopened, err := NewUserService(dir)
	require.NoError(t, err)

	_, err = reopened.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
}
