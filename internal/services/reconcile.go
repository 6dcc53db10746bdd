package services

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/iterator"
)

// SummaryReconciler repairs conversation documents whose denormalized
// last-message fields drifted from the newest message. Drift happens when a
// sender crashes between the message insert and the summary update; nothing
// in the write path prevents it.
type SummaryReconciler interface {
	ReconcileSummaries(ctx context.Context) (ReconcileStats, error)
}

type ReconcileStats struct {
	Checked  int
	Repaired int
}

func (s *FirestoreChatService) ReconcileSummaries(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	iter := s.conversations.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Checked++

		var conv firestoreConversationDoc
		if err := snap.DataTo(&conv); err != nil {
			return stats, err
		}

		msgIter := snap.Ref.Collection(colMessages).
			OrderBy("createdAt", firestore.Desc).
			Limit(1).
			Documents(ctx)
		msgSnap, err := msgIter.Next()
		msgIter.Stop()
		if err == iterator.Done {
			continue
		}
		if err != nil {
			return stats, err
		}

		var newest firestoreMessageDoc
		if err := msgSnap.DataTo(&newest); err != nil {
			return stats, err
		}

		if conv.LastMessage == newest.Text &&
			conv.LastMessageUID == newest.SenderUID &&
			conv.LastMessageAt.Equal(newest.CreatedAt) {
			continue
		}

		log.Printf("[worker] repairing summary conversation=%s stale=%q newest=%q", snap.Ref.ID, conv.LastMessage, newest.Text)
		if _, err := snap.Ref.Set(ctx, map[string]interface{}{
			"lastMessage":          newest.Text,
			"lastMessageAt":        newest.CreatedAt,
			"lastMessageSenderUid": newest.SenderUID,
		}, firestore.MergeAll); err != nil {
			return stats, err
		}
		stats.Repaired++
	}
}

func (s *MongoChatService) ReconcileSummaries(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	cur, err := s.conversationsCol.Find(ctx, bson.M{})
	if err != nil {
		return stats, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var conv mongoConversationDoc
		if err := cur.Decode(&conv); err != nil {
			return stats, err
		}
		stats.Checked++

		var newest mongoMessageDoc
		err := s.messagesCol.FindOne(ctx,
			bson.M{"conversation_id": conv.ID},
			options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&newest)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return stats, err
		}

		if conv.LastMessage == newest.Text &&
			conv.LastMessageUID == newest.SenderUID &&
			conv.LastMessageAt.Equal(newest.CreatedAt) {
			continue
		}

		log.Printf("[worker] repairing summary conversation=%s stale=%q newest=%q", conv.ID, conv.LastMessage, newest.Text)
		if _, err := s.conversationsCol.UpdateOne(ctx, bson.M{"_id": conv.ID}, bson.M{
			"$set": bson.M{
				"last_message":            newest.Text,
				"last_message_at":         newest.CreatedAt,
				"last_message_sender_uid": newest.SenderUID,
			},
		}); err != nil {
			return stats, err
		}
		stats.Repaired++
	}
	return stats, cur.Err()
}
