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

type MemoryChatService struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	messages      map[string][]*models.Message // conversationID -> ordered by CreatedAt
	store         *storage.JSONStore
}

type chatSnapshot struct {
	Conversations []*models.Conversation       `json:"conversations"`
	Messages      map[string][]*models.Message `json:"messages"`
}

func NewMemoryChatService(dataDir string) (*MemoryChatService, error) {
	store, err := storage.NewJSONStore(dataDir, "conversations.json")
	if err != nil {
		return nil, err
	}

	s := &MemoryChatService{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]*models.Message),
		store:         store,
	}

	var snapshot chatSnapshot
	if err := store.Load(&snapshot); err != nil {
		return nil, err
	}
	for _, c := range snapshot.Conversations {
		s.conversations[c.ID] = c
	}
	if snapshot.Messages != nil {
		s.messages = snapshot.Messages
	}
	return s, nil
}

func (s *MemoryChatService) GetOrCreateConversation(ctx context.Context, uidA, nameA, uidB, nameB string) (string, error) {
	pair := sortedPair(uidA, uidB)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.conversations {
		if len(c.ParticipantUIDs) == 2 && c.ParticipantUIDs[0] == pair[0] && c.ParticipantUIDs[1] == pair[1] {
			return c.ID, nil
		}
	}

	conv := &models.Conversation{
		ID:               uuid.New().String(),
		ParticipantUIDs:  pair,
		ParticipantNames: map[string]string{uidA: nameA, uidB: nameB},
		LastMessage:      "",
		LastMessageAt:    time.Now(),
		LastMessageUID:   "",
		CreatedAt:        time.Now(),
	}
	s.conversations[conv.ID] = conv
	s.persist()
	return conv.ID, nil
}

// GetConversation returns (nil, nil) for an unknown id; the caller renders a
// not-found state.
func (s *MemoryChatService) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, exists := s.conversations[conversationID]
	if !exists {
		return nil, nil
	}
	out := *conv
	return &out, nil
}

func (s *MemoryChatService) ListConversations(ctx context.Context, uid string) ([]*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Conversation, 0)
	for _, c := range s.conversations {
		for _, p := range c.ParticipantUIDs {
			if p == uid {
				conv := *c
				out = append(out, &conv)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

func (s *MemoryChatService) SendMessage(ctx context.Context, conversationID, senderUID, senderName, text string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, exists := s.conversations[conversationID]
	if !exists {
		return nil, ErrConversationNotFound
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		SenderUID:  senderUID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)

	// Second step: refresh the parent's denormalized summary.
	conv.LastMessage = msg.Text
	conv.LastMessageAt = msg.CreatedAt
	conv.LastMessageUID = msg.SenderUID

	s.persist()

	out := *msg
	return &out, nil
}

func (s *MemoryChatService) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	out := make([]*models.Message, 0, len(msgs))
	for _, m := range msgs {
		msg := *m
		out = append(out, &msg)
	}
	return out, nil
}

func sortedPair(a, b string) []string {
	if a <= b {
		return []string{a, b}
	}
	return []string{b, a}
}

func (s *MemoryChatService) persist() {
	snapshot := chatSnapshot{
		Conversations: make([]*models.Conversation, 0, len(s.conversations)),
		Messages:      s.messages,
	}
	for _, c := range s.conversations {
		snapshot.Conversations = append(snapshot.Conversations, c)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("[MemoryChatService] failed to persist snapshot: %v", err)
	}
}
