// Package services contains one store service per collection, each available
// against three backends: Firestore (production), MongoDB, and an in-memory
// JSON-snapshot store for development and tests. Store clients are injected
// at construction; nothing here holds global state.
package services

import (
	"context"
	"errors"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/week"
)

var (
	ErrMetricNotFound       = errors.New("metric definition not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrProfileNotFound      = errors.New("profile not found")

	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

// RecordService maintains at most one PeriodicRecord per (user, period).
type RecordService interface {
	// Upsert creates or overwrites the record for (userID, period). A nil
	// height leaves any stored height untouched; a positive height is also
	// backfilled into the user's older records that lack one. The lookup and
	// the writes are separate store operations; concurrent upserts for the
	// same key race and the last writer wins.
	Upsert(ctx context.Context, userID string, period week.PeriodKey, weight float64, height *float64, customMetrics map[string]float64) (*models.PeriodicRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*models.PeriodicRecord, error)
	ListAll(ctx context.Context) ([]*models.PeriodicRecord, error)
}

// MetricService is plain CRUD over the team-wide metric definitions.
// Delete does not cascade into records' custom-metric maps.
type MetricService interface {
	Create(ctx context.Context, req *models.CreateMetricRequest) (*models.MetricDefinition, error)
	List(ctx context.Context) ([]*models.MetricDefinition, error)
	Update(ctx context.Context, metricID string, req *models.UpdateMetricRequest) (*models.MetricDefinition, error)
	Delete(ctx context.Context, metricID string) error
}

// ChatService manages direct-message conversations and their messages.
type ChatService interface {
	// GetOrCreateConversation looks up the conversation for the sorted uid
	// pair and creates it when absent. Lookup and create are not atomic;
	// concurrent calls for a new pair can duplicate the conversation. That
	// race is accepted, not fixed here.
	GetOrCreateConversation(ctx context.Context, uidA, nameA, uidB, nameB string) (string, error)
	// GetConversation returns (nil, nil) when the id has no document.
	GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListConversations(ctx context.Context, uid string) ([]*models.Conversation, error)
	// SendMessage appends the message, then updates the parent's
	// denormalized last-message summary with a second, non-atomic write.
	SendMessage(ctx context.Context, conversationID, senderUID, senderName, text string) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error)
}

// ProfileService manages the team roster.
type ProfileService interface {
	// Ensure creates the profile on first sign-in and fills in blank
	// fields from the auth provider on later calls.
	Ensure(ctx context.Context, uid, displayName, email string) (*models.UserProfile, error)
	GetAll(ctx context.Context) ([]*models.UserProfile, error)
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Update(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.UserProfile, error)
}

func cloneMetricValues(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
