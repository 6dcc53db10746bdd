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

type MongoMetricService struct {
	metricsCol *mongo.Collection
}

type mongoMetricDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Unit      string    `bson:"unit"`
	Color     string    `bson:"color"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoMetricService(ctx context.Context, db *mongo.Database) *MongoMetricService {
	col := db.Collection("metrics")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})

	return &MongoMetricService{metricsCol: col}
}

func (s *MongoMetricService) Create(ctx context.Context, req *models.CreateMetricRequest) (*models.MetricDefinition, error) {
	doc := mongoMetricDoc{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Unit:      req.Unit,
		Color:     req.Color,
		CreatedAt: time.Now(),
	}
	if _, err := s.metricsCol.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return metricFromDoc(&doc), nil
}

func (s *MongoMetricService) List(ctx context.Context) ([]*models.MetricDefinition, error) {
	cur, err := s.metricsCol.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.MetricDefinition, 0)
	for cur.Next(ctx) {
		var doc mongoMetricDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, metricFromDoc(&doc))
	}
	return out, cur.Err()
}

func (s *MongoMetricService) Update(ctx context.Context, metricID string, req *models.UpdateMetricRequest) (*models.MetricDefinition, error) {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Unit != nil {
		set["unit"] = *req.Unit
	}
	if req.Color != nil {
		set["color"] = *req.Color
	}

	if len(set) > 0 {
		res, err := s.metricsCol.UpdateOne(ctx, bson.M{"_id": metricID}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrMetricNotFound
		}
	}

	var doc mongoMetricDoc
	if err := s.metricsCol.FindOne(ctx, bson.M{"_id": metricID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMetricNotFound
		}
		return nil, err
	}
	return metricFromDoc(&doc), nil
}

func (s *MongoMetricService) Delete(ctx context.Context, metricID string) error {
	res, err := s.metricsCol.DeleteOne(ctx, bson.M{"_id": metricID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMetricNotFound
	}
	return nil
}

func metricFromDoc(doc *mongoMetricDoc) *models.MetricDefinition {
	return &models.MetricDefinition{
		ID:        doc.ID,
		Name:      doc.Name,
		Unit:      doc.Unit,
		Color:     doc.Color,
		CreatedAt: doc.CreatedAt,
	}
}
