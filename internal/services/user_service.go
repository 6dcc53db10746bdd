package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/storage"
)

// localAccount is an email/password credential for the local-auth fallback.
// In production sign-in goes through Firebase Auth and this service is idle.
type localAccount struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserService struct {
	mu       sync.RWMutex
	accounts map[string]*localAccount // id -> account
	byEmail  map[string]string        // email -> id
	store    *storage.JSONStore
}

func NewUserService(dataDir string) (*UserService, error) {
	store, err := storage.NewJSONStore(dataDir, "accounts.json")
	if err != nil {
		return nil, err
	}

	s := &UserService{
		accounts: make(map[string]*localAccount),
		byEmail:  make(map[string]string),
		store:    store,
	}

	var snapshot []*localAccount
	if err := store.Load(&snapshot); err != nil {
		return nil, err
	}
	for _, a := range snapshot {
		s.accounts[a.ID] = a
		s.byEmail[a.Email] = a.ID
	}
	return s, nil
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &localAccount{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  req.DisplayName,
		CreatedAt:    time.Now(),
	}

	s.accounts[account.ID] = account
	s.byEmail[account.Email] = account.ID
	s.persist()

	return accountProfile(account), nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, exists := s.byEmail[req.Email]
	if !exists {
		return nil, ErrUserNotFound
	}

	account := s.accounts[accountID]
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return accountProfile(account), nil
}

func accountProfile(a *localAccount) *models.UserProfile {
	return &models.UserProfile{
		UID:         a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
	}
}

func (s *UserService) persist() {
	snapshot := make([]*localAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		snapshot = append(snapshot, a)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("[UserService] failed to persist snapshot: %v", err)
	}
}
