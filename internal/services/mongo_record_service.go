package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/week"
)

type MongoRecordService struct {
	recordsCol *mongo.Collection
}

type mongoRecordDoc struct {
	ID            string             `bson:"_id"`
	UserID        string             `bson:"user_id"`
	Date          string             `bson:"date"`
	Weight        float64            `bson:"weight"`
	Height        *float64           `bson:"height,omitempty"`
	CustomMetrics map[string]float64 `bson:"custom_metrics"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func NewMongoRecordService(ctx context.Context, db *mongo.Database) *MongoRecordService {
	col := db.Collection("records")

	// Best-effort indexes. Note: (user_id, date) is deliberately NOT unique;
	// at-most-one-per-period is upsert policy, not a store constraint.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	})

	return &MongoRecordService{recordsCol: col}
}

func (s *MongoRecordService) Upsert(ctx context.Context, userID string, period week.PeriodKey, weight float64, height *float64, customMetrics map[string]float64) (*models.PeriodicRecord, error) {
	now := time.Now()
	periodKey := period.String()

	var existing mongoRecordDoc
	err := s.recordsCol.FindOne(ctx, bson.M{"user_id": userID, "date": periodKey}).Decode(&existing)

	var recordID string
	var created time.Time

	switch {
	case err == mongo.ErrNoDocuments:
		doc := mongoRecordDoc{
			ID:            uuid.New().String(),
			UserID:        userID,
			Date:          periodKey,
			Weight:        weight,
			Height:        height,
			CustomMetrics: cloneMetricValues(customMetrics),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := s.recordsCol.InsertOne(ctx, doc); err != nil {
			return nil, err
		}
		recordID = doc.ID
		created = now
	case err != nil:
		return nil, err
	default:
		set := bson.M{
			"weight":         weight,
			"custom_metrics": cloneMetricValues(customMetrics),
			"updated_at":     now,
		}
		if height != nil {
			set["height"] = *height
		}
		if _, err := s.recordsCol.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
			return nil, err
		}
		recordID = existing.ID
		created = existing.CreatedAt
		if height == nil {
			height = existing.Height
		}
	}

	if height != nil && *height > 0 {
		// Absent, null and zero all count as unset.
		filter := bson.M{
			"user_id": userID,
			"$or": []bson.M{
				{"height": bson.M{"$exists": false}},
				{"height": nil},
				{"height": 0},
			},
		}
		if _, err := s.recordsCol.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"height": *height}}); err != nil {
			log.Printf("[Upsert] user=%s height backfill error=%v", userID, err)
		}
	}

	return &models.PeriodicRecord{
		ID:            recordID,
		UserID:        userID,
		Period:        period,
		Weight:        weight,
		Height:        height,
		CustomMetrics: cloneMetricValues(customMetrics),
		CreatedAt:     created,
		UpdatedAt:     now,
	}, nil
}

func (s *MongoRecordService) ListByUser(ctx context.Context, userID string) ([]*models.PeriodicRecord, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

func (s *MongoRecordService) ListAll(ctx context.Context) ([]*models.PeriodicRecord, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoRecordService) find(ctx context.Context, filter bson.M) ([]*models.PeriodicRecord, error) {
	cur, err := s.recordsCol.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.PeriodicRecord, 0)
	for cur.Next(ctx) {
		var doc mongoRecordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		period, err := week.ParseKey(doc.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.PeriodicRecord{
			ID:            doc.ID,
			UserID:        doc.UserID,
			Period:        period,
			Weight:        doc.Weight,
			Height:        doc.Height,
			CustomMetrics: doc.CustomMetrics,
			CreatedAt:     doc.CreatedAt,
			UpdatedAt:     doc.UpdatedAt,
		})
	}
	return out, cur.Err()
}
