package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/storage"
)

type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.UserProfile
	store    *storage.JSONStore
}

func NewMemoryProfileService(dataDir string) (*MemoryProfileService, error) {
	store, err := storage.NewJSONStore(dataDir, "users.json")
	if err != nil {
		return nil, err
	}

	s := &MemoryProfileService{
		profiles: make(map[string]*models.UserProfile),
		store:    store,
	}

	var snapshot []*models.UserProfile
	if err := store.Load(&snapshot); err != nil {
		return nil, err
	}
	for _, p := range snapshot {
		s.profiles[p.UID] = p
	}
	return s, nil
}

func (s *MemoryProfileService) Ensure(ctx context.Context, uid, displayName, email string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[uid]
	if !exists {
		prof = &models.UserProfile{
			UID:         uid,
			DisplayName: displayName,
			Email:       email,
			CreatedAt:   time.Now(),
		}
		s.profiles[uid] = prof
		s.persist()
	} else {
		changed := false
		if prof.DisplayName == "" && displayName != "" {
			prof.DisplayName = displayName
			changed = true
		}
		if prof.Email == "" && email != "" {
			prof.Email = email
			changed = true
		}
		if changed {
			s.persist()
		}
	}

	out := *prof
	return &out, nil
}

func (s *MemoryProfileService) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		prof := *p
		out = append(out, &prof)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

func (s *MemoryProfileService) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prof, exists := s.profiles[uid]
	if !exists {
		return nil, ErrProfileNotFound
	}
	out := *prof
	return &out, nil
}

func (s *MemoryProfileService) Update(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[uid]
	if !exists {
		return nil, ErrProfileNotFound
	}

	if req.DisplayName != nil {
		prof.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		prof.Email = *req.Email
	}
	s.persist()

	out := *prof
	return &out, nil
}

func (s *MemoryProfileService) persist() {
	snapshot := make([]*models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		snapshot = append(snapshot, p)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("[MemoryProfileService] failed to persist snapshot: %v", err)
	}
}
