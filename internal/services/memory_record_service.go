package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/storage"
	"github.com/teamlog/backend/internal/week"
)

// MemoryRecordService keeps records in memory and snapshots them to a JSON
// file after every mutation. Development/test backend.
type MemoryRecordService struct {
	mu      sync.RWMutex
	records map[string]*models.PeriodicRecord
	store   *storage.JSONStore
}

func NewMemoryRecordService(dataDir string) (*MemoryRecordService, error) {
	store, err := storage.NewJSONStore(dataDir, "records.json")
	if err != nil {
		return nil, err
	}

	s := &MemoryRecordService{
		records: make(map[string]*models.PeriodicRecord),
		store:   store,
	}

	var snapshot []*models.PeriodicRecord
	if err := store.Load(&snapshot); err != nil {
		return nil, err
	}
	for _, r := range snapshot {
		s.records[r.ID] = r
	}
	return s, nil
}

func (s *MemoryRecordService) Upsert(ctx context.Context, userID string, period week.PeriodKey, weight float64, height *float64, customMetrics map[string]float64) (*models.PeriodicRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	periodKey := period.String()

	var rec *models.PeriodicRecord
	for _, r := range s.records {
		if r.UserID == userID && r.Period.String() == periodKey {
			rec = r
			break
		}
	}

	if rec == nil {
		rec = &models.PeriodicRecord{
			ID:            uuid.New().String(),
			UserID:        userID,
			Period:        period,
			Weight:        weight,
			Height:        height,
			CustomMetrics: cloneMetricValues(customMetrics),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		s.records[rec.ID] = rec
	} else {
		rec.Weight = weight
		rec.CustomMetrics = cloneMetricValues(customMetrics)
		// A nil height on update must not erase a stored one.
		if height != nil {
			rec.Height = height
		}
		rec.UpdatedAt = now
	}

	if height != nil && *height > 0 {
		s.backfillHeight(userID, *height)
	}

	s.persist()

	out := *rec
	return &out, nil
}

// backfillHeight propagates a newly entered height to every record of the
// user that has none. A stored height of exactly 0 counts as unset.
// Caller holds the lock.
func (s *MemoryRecordService) backfillHeight(userID string, height float64) {
	for _, r := range s.records {
		if r.UserID != userID {
			continue
		}
		if r.Height == nil || *r.Height == 0 {
			h := height
			r.Height = &h
		}
	}
}

func (s *MemoryRecordService) ListByUser(ctx context.Context, userID string) ([]*models.PeriodicRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.PeriodicRecord, 0)
	for _, r := range s.records {
		if r.UserID == userID {
			rec := *r
			out = append(out, &rec)
		}
	}
	sortRecordsByPeriodDesc(out)
	return out, nil
}

func (s *MemoryRecordService) ListAll(ctx context.Context) ([]*models.PeriodicRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.PeriodicRecord, 0, len(s.records))
	for _, r := range s.records {
		rec := *r
		out = append(out, &rec)
	}
	sortRecordsByPeriodDesc(out)
	return out, nil
}

func sortRecordsByPeriodDesc(records []*models.PeriodicRecord) {
	// Both period forms ("YYYY-MM" and "YYYY-MM-DD") order correctly as
	// plain strings, which is also how the hosted backends sort them.
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Period.String(), records[j].Period.String()
		if a != b {
			return a > b
		}
		return records[i].UserID < records[j].UserID
	})
}

func (s *MemoryRecordService) persist() {
	snapshot := make([]*models.PeriodicRecord, 0, len(s.records))
	for _, r := range s.records {
		snapshot = append(snapshot, r)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("[MemoryRecordService] failed to persist snapshot: %v", err)
	}
}
