package services

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/teamlog/backend/internal/models"
)

type FirestoreChatService struct {
	conversations *firestore.CollectionRef
}

type firestoreConversationDoc struct {
	ParticipantUIDs  []string          `firestore:"participantUids"`
	ParticipantNames map[string]string `firestore:"participantNames"`
	LastMessage      string            `firestore:"lastMessage"`
	LastMessageAt    time.Time         `firestore:"lastMessageAt"`
	LastMessageUID   string            `firestore:"lastMessageSenderUid"`
	CreatedAt        time.Time         `firestore:"createdAt"`
}

type firestoreMessageDoc struct {
	SenderUID  string    `firestore:"senderUid"`
	SenderName string    `firestore:"senderName"`
	Text       string    `firestore:"text"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

func NewFirestoreChatService(client *firestore.Client) *FirestoreChatService {
	return &FirestoreChatService{conversations: client.Collection(colConversations)}
}

func (s *FirestoreChatService) GetOrCreateConversation(ctx context.Context, uidA, nameA, uidB, nameB string) (string, error) {
	pair := sortedPair(uidA, uidB)

	// Lookup-before-create without a transaction; two concurrent calls for a
	// new pair can both create. Accepted.
	iter := s.conversations.Where("participantUids", "==", pair).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == nil {
		return snap.Ref.ID, nil
	}
	if err != iterator.Done {
		return "", err
	}

	now := time.Now()
	doc := firestoreConversationDoc{
		ParticipantUIDs:  pair,
		ParticipantNames: map[string]string{uidA: nameA, uidB: nameB},
		LastMessage:      "",
		LastMessageAt:    now,
		LastMessageUID:   "",
		CreatedAt:        now,
	}
	ref, _, err := s.conversations.Add(ctx, doc)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreChatService) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	snap, err := s.conversations.Doc(conversationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return conversationFromSnap(snap)
}

func (s *FirestoreChatService) ListConversations(ctx context.Context, uid string) ([]*models.Conversation, error) {
	iter := s.conversations.
		Where("participantUids", "array-contains", uid).
		OrderBy("lastMessageAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	out := make([]*models.Conversation, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		conv, err := conversationFromSnap(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
}

func (s *FirestoreChatService) SendMessage(ctx context.Context, conversationID, senderUID, senderName, text string) (*models.Message, error) {
	parent := s.conversations.Doc(conversationID)
	if _, err := parent.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	now := time.Now()
	msgRef, _, err := parent.Collection(colMessages).Add(ctx, firestoreMessageDoc{
		SenderUID:  senderUID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	// Summary update is a second, independent write. A crash in between
	// leaves the message in place with a stale summary; the reconcile
	// worker repairs that drift.
	if _, err := parent.Set(ctx, map[string]interface{}{
		"lastMessage":          text,
		"lastMessageAt":        now,
		"lastMessageSenderUid": senderUID,
	}, firestore.MergeAll); err != nil {
		return nil, err
	}

	return &models.Message{
		ID:         msgRef.ID,
		SenderUID:  senderUID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  now,
	}, nil
}

func (s *FirestoreChatService) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	iter := s.conversations.Doc(conversationID).
		Collection(colMessages).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	out := make([]*models.Message, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var doc firestoreMessageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		out = append(out, &models.Message{
			ID:         snap.Ref.ID,
			SenderUID:  doc.SenderUID,
			SenderName: doc.SenderName,
			Text:       doc.Text,
			CreatedAt:  timeOrNow(doc.CreatedAt),
		})
	}
}

func conversationFromSnap(snap *firestore.DocumentSnapshot) (*models.Conversation, error) {
	var doc firestoreConversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return &models.Conversation{
		ID:               snap.Ref.ID,
		ParticipantUIDs:  doc.ParticipantUIDs,
		ParticipantNames: doc.ParticipantNames,
		LastMessage:      doc.LastMessage,
		LastMessageAt:    timeOrNow(doc.LastMessageAt),
		LastMessageUID:   doc.LastMessageUID,
		CreatedAt:        timeOrNow(doc.CreatedAt),
	}, nil
}
