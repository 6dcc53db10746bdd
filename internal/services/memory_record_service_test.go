package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamlog/backend/internal/week"
)

func fptr(v float64) *float64 { return &v }

func newRecordService(t *testing.T) *MemoryRecordService {
	t.Helper()
	s, err := NewMemoryRecordService(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestUpsertCreatesThenOverwrites(t *testing.T) {
	s := newRecordService(t)
	ctx := context.Background()
	period := week.Weekly(2025, time.February, 7)

	first, err := s.Upsert(ctx, "u1", period, 70.5, fptr(175), map[string]float64{"m1": 12})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 70.5, first.Weight)

	second, err := s.Upsert(ctx, "u1", period, 71.2, nil, map[string]float64{"m1": 13})
	require.NoError(t, err)

	records, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 71.2, records[0].Weight)
	assert.Equal(t, 13.0, records[0].CustomMetrics["m1"])
	assert.Equal(t, first.CreatedAt, records[0].CreatedAt)
}

func TestUpsertNilHeightKeepsStoredHeight(t *testing.T) {
	s := newRecordService(t)
	ctx := context.Background()
	period := week.Weekly(2025, time.February, 7)

	_, err := s.Upsert(ctx, "u1", period, 70, fptr(175), nil)
	require.NoError(t, err)

	_, err = s.Upsert(ctx, "u1", period, 71, nil, nil)
	require.NoError(t, err)

	records, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Height)
	assert.Equal(t, 175.0, *records[0].Height)
}

func TestUpsertBackfillsHeight(t *testing.T) {
	s := newRecordService(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, "u1", week.Weekly(2025, time.January, 24), 69, nil, nil)
	require.NoError(t, err)
	// A stored 0 counts as unset and gets backfilled too.
	_, err = s.Upsert(ctx, "u1", week.Weekly(2025, time.January, 31), 70, fptr(0), nil)
	require.NoError(t, err)
	// Another user's heightless record stays untouched.
	_, err = s.Upsert(ctx, "u2", week.Weekly(2025, time.January, 31), 80, nil, nil)
	require.NoError(t, err)

	_, err = s.Upsert(ctx, "u1", week.Weekly(2025, time.February, 7), 70.5, fptr(180), nil)
	require.NoError(t, err)

	records, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		require.NotNil(t, r.Height, "period %s", r.Period)
		assert.Equal(t, 180.0, *r.Height, "period %s", r.Period)
	}

	others, err := s.ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Nil(t, others[0].Height)
}

func TestListAllSortsNewestPeriodFirst(t *testing.T) {
	s := newRecordService(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, "u1", week.Weekly(2025, time.January, 31), 70, nil, nil)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "u1", week.Weekly(2025, time.February, 7), 70, nil, nil)
	require.NoError(t, err)
	// Legacy monthly key sorts alongside the weekly ones as a plain string.
	_, err = s.Upsert(ctx, "u1", week.Monthly(2024, time.December), 68, nil, nil)
	require.NoError(t, err)

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-02-07", records[0].Period.String())
	assert.Equal(t, "2025-01-31", records[1].Period.String())
	assert.Equal(t, "2024-12", records[2].Period.String())
}

func TestRecordsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewMemoryRecordService(dir)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "u1", week.Weekly(2025, time.February, 7), 70, fptr(175), map[string]float64{"m1": 5})
	require.NoError(t, err)

	reopened, err := NewMemoryRecordService(dir)
	require.NoError(t, err)

	records, err := reopened.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-02-07", records[0].Period.String())
	assert.Equal(t, 70.0, records[0].Weight)
	require.NotNil(t, records[0].Height)
	assert.Equal(t, 175.0, *records[0].Height)
	assert.Equal(t, 5.0, records[0].CustomMetrics["m1"])
}
