package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlog/backend/internal/models"
)

func sptr(s string) *string { return &s }

func newMetricService(t *testing.T) *MemoryMetricService {
	t.Helper()
	s, err := NewMemoryMetricService(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestMetricCreateAndListOrder(t *testing.T) {
	s := newMetricService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, &models.CreateMetricRequest{Name: "体脂肪率", Unit: "%", Color: "#ef4444"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := s.Create(ctx, &models.CreateMetricRequest{Name: "睡眠時間", Unit: "h", Color: "#3b82f6"})
	require.NoError(t, err)

	metrics, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, first.ID, metrics[0].ID)
	assert.Equal(t, second.ID, metrics[1].ID)
	assert.Equal(t, "体脂肪率", metrics[0].Name)
	assert.Equal(t, "%", metrics[0].Unit)
}

func TestMetricUpdatePartialFields(t *testing.T) {
	s := newMetricService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.CreateMetricRequest{Name: "体脂肪率", Unit: "%", Color: "#ef4444"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, &models.UpdateMetricRequest{Color: sptr("#22c55e")})
	require.NoError(t, err)
	assert.Equal(t, "体脂肪率", updated.Name)
	assert.Equal(t, "%", updated.Unit)
	assert.Equal(t, "#22c55e", updated.Color)
}

func TestMetricUpdateUnknownID(t *testing.T) {
	s := newMetricService(t)

	_, err := s.Update(context.Background(), "no-such-id", &models.UpdateMetricRequest{Name: sptr("x")})
	assert.ErrorIs(t, err, ErrMetricNotFound)
}

func TestMetricDelete(t *testing.T) {
	s := newMetricService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.CreateMetricRequest{Name: "歩数", Unit: "歩", Color: "#f59e0b"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	metrics, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, metrics)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrMetricNotFound)
}
