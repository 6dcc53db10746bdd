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
)

type MemoryMetricService struct {
	mu      sync.RWMutex
	metrics map[string]*models.MetricDefinition
	store   *storage.JSONStore
}

func NewMemoryMetricService(dataDir string) (*MemoryMetricService, error) {
	store, err := storage.NewJSONStore(dataDir, "metrics.json")
	if err != nil {
		return nil, err
	}

	s := &MemoryMetricService{
		metrics: make(map[string]*models.MetricDefinition),
		store:   store,
	}

	var snapshot []*models.MetricDefinition
	if err := store.Load(&snapshot); err != nil {
		return nil, err
	}
	for _, m := range snapshot {
		s.metrics[m.ID] = m
	}
	return s, nil
}

func (s *MemoryMetricService) Create(ctx context.Context, req *models.CreateMetricRequest) (*models.MetricDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric := &models.MetricDefinition{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Unit:      req.Unit,
		Color:     req.Color,
		CreatedAt: time.Now(),
	}
	s.metrics[metric.ID] = metric
	s.persist()

	out := *metric
	return &out, nil
}

func (s *MemoryMetricService) List(ctx context.Context) ([]*models.MetricDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.MetricDefinition, 0, len(s.metrics))
	for _, m := range s.metrics {
		metric := *m
		out = append(out, &metric)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryMetricService) Update(ctx context.Context, metricID string, req *models.UpdateMetricRequest) (*models.MetricDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric, exists := s.metrics[metricID]
	if !exists {
		return nil, ErrMetricNotFound
	}

	if req.Name != nil {
		metric.Name = *req.Name
	}
	if req.Unit != nil {
		metric.Unit = *req.Unit
	}
	if req.Color != nil {
		metric.Color = *req.Color
	}
	s.persist()

	out := *metric
	return &out, nil
}

// Delete removes the definition only. Records keep whatever values they
// stored under the deleted id.
func (s *MemoryMetricService) Delete(ctx context.Context, metricID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.metrics[metricID]; !exists {
		return ErrMetricNotFound
	}
	delete(s.metrics, metricID)
	s.persist()
	return nil
}

func (s *MemoryMetricService) persist() {
	snapshot := make([]*models.MetricDefinition, 0, len(s.metrics))
	for _, m := range s.metrics {
		snapshot = append(snapshot, m)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("[MemoryMetricService] failed to persist snapshot: %v", err)
	}
}
