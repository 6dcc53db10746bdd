package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamlog/backend/internal/models"
)

// MongoChatService stores conversations and messages in two flat collections;
// messages reference their parent by conversation_id.
type MongoChatService struct {
	conversationsCol *mongo.Collection
	messagesCol      *mongo.Collection
}

type mongoConversationDoc struct {
	ID               string            `bson:"_id"`
	ParticipantUIDs  []string          `bson:"participant_uids"`
	ParticipantNames map[string]string `bson:"participant_names"`
	LastMessage      string            `bson:"last_message"`
	LastMessageAt    time.Time         `bson:"last_message_at"`
	LastMessageUID   string            `bson:"last_message_sender_uid"`
	CreatedAt        time.Time         `bson:"created_at"`
}

type mongoMessageDoc struct {
	ID             string    `bson:"_id"`
	ConversationID string    `bson:"conversation_id"`
	SenderUID      string    `bson:"sender_uid"`
	SenderName     string    `bson:"sender_name"`
	Text           string    `bson:"text"`
	CreatedAt      time.Time `bson:"created_at"`
}

func NewMongoChatService(ctx context.Context, db *mongo.Database) *MongoChatService {
	convs := db.Collection("conversations")
	msgs := db.Collection("messages")

	// Best-effort indexes. No unique index on the participant pair; the
	// get-or-create race is tolerated, not constrained away.
	_, _ = convs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "participant_uids", Value: 1}}},
		{Keys: bson.D{{Key: "last_message_at", Value: -1}}},
	})
	_, _ = msgs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
	})

	return &MongoChatService{conversationsCol: convs, messagesCol: msgs}
}

func (s *MongoChatService) GetOrCreateConversation(ctx context.Context, uidA, nameA, uidB, nameB string) (string, error) {
	pair := sortedPair(uidA, uidB)

	var existing mongoConversationDoc
	err := s.conversationsCol.FindOne(ctx, bson.M{"participant_uids": pair}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return "", err
	}

	now := time.Now()
	doc := mongoConversationDoc{
		ID:               uuid.New().String(),
		ParticipantUIDs:  pair,
		ParticipantNames: map[string]string{uidA: nameA, uidB: nameB},
		LastMessage:      "",
		LastMessageAt:    now,
		LastMessageUID:   "",
		CreatedAt:        now,
	}
	if _, err := s.conversationsCol.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (s *MongoChatService) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var doc mongoConversationDoc
	err := s.conversationsCol.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return conversationFromMongoDoc(&doc), nil
}

func (s *MongoChatService) ListConversations(ctx context.Context, uid string) ([]*models.Conversation, error) {
	cur, err := s.conversationsCol.Find(ctx,
		bson.M{"participant_uids": uid},
		options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Conversation, 0)
	for cur.Next(ctx) {
		var doc mongoConversationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, conversationFromMongoDoc(&doc))
	}
	return out, cur.Err()
}

func (s *MongoChatService) SendMessage(ctx context.Context, conversationID, senderUID, senderName, text string) (*models.Message, error) {
	count, err := s.conversationsCol.CountDocuments(ctx, bson.M{"_id": conversationID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrConversationNotFound
	}

	now := time.Now()
	msg := mongoMessageDoc{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderUID:      senderUID,
		SenderName:     senderName,
		Text:           text,
		CreatedAt:      now,
	}
	if _, err := s.messagesCol.InsertOne(ctx, msg); err != nil {
		return nil, err
	}

	// Separate write, no session/transaction; the summary may briefly lag.
	_, err = s.conversationsCol.UpdateOne(ctx, bson.M{"_id": conversationID}, bson.M{
		"$set": bson.M{
			"last_message":            text,
			"last_message_at":         now,
			"last_message_sender_uid": senderUID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &models.Message{
		ID:         msg.ID,
		SenderUID:  senderUID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  now,
	}, nil
}

func (s *MongoChatService) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	cur, err := s.messagesCol.Find(ctx,
		bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Message, 0)
	for cur.Next(ctx) {
		var doc mongoMessageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &models.Message{
			ID:         doc.ID,
			SenderUID:  doc.SenderUID,
			SenderName: doc.SenderName,
			Text:       doc.Text,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return out, cur.Err()
}

func conversationFromMongoDoc(doc *mongoConversationDoc) *models.Conversation {
	return &models.Conversation{
		ID:               doc.ID,
		ParticipantUIDs:  doc.ParticipantUIDs,
		ParticipantNames: doc.ParticipantNames,
		LastMessage:      doc.LastMessage,
		LastMessageAt:    doc.LastMessageAt,
		LastMessageUID:   doc.LastMessageUID,
		CreatedAt:        doc.CreatedAt,
	}
}
