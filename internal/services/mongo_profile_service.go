package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamlog/backend/internal/models"
)

type MongoProfileService struct {
	usersCol *mongo.Collection
}

type mongoUserDoc struct {
	UID         string    `bson:"_id"`
	DisplayName string    `bson:"display_name"`
	Email       string    `bson:"email"`
	CreatedAt   time.Time `bson:"created_at"`
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database) *MongoProfileService {
	col := db.Collection("users")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})

	return &MongoProfileService{usersCol: col}
}

func (s *MongoProfileService) Ensure(ctx context.Context, uid, displayName, email string) (*models.UserProfile, error) {
	now := time.Now()

	var doc mongoUserDoc
	err := s.usersCol.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if err == nil {
		set := bson.M{}
		if doc.DisplayName == "" && displayName != "" {
			set["display_name"] = displayName
			doc.DisplayName = displayName
		}
		if doc.Email == "" && email != "" {
			set["email"] = email
			doc.Email = email
		}
		if len(set) > 0 {
			_, _ = s.usersCol.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
		}
		return profileFromMongoDoc(&doc), nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	doc = mongoUserDoc{UID: uid, DisplayName: displayName, Email: email, CreatedAt: now}
	if _, err := s.usersCol.InsertOne(ctx, doc); err != nil {
		// If a race created it, fetch again.
		var retry mongoUserDoc
		if err2 := s.usersCol.FindOne(ctx, bson.M{"_id": uid}).Decode(&retry); err2 == nil {
			return profileFromMongoDoc(&retry), nil
		}
		return nil, err
	}
	return profileFromMongoDoc(&doc), nil
}

func (s *MongoProfileService) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	cur, err := s.usersCol.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.UserProfile, 0)
	for cur.Next(ctx) {
		var doc mongoUserDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, profileFromMongoDoc(&doc))
	}
	return out, cur.Err()
}

func (s *MongoProfileService) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	var doc mongoUserDoc
	err := s.usersCol.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profileFromMongoDoc(&doc), nil
}

func (s *MongoProfileService) Update(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	set := bson.M{}
	if req.DisplayName != nil {
		set["display_name"] = *req.DisplayName
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}

	if len(set) > 0 {
		res, err := s.usersCol.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrProfileNotFound
		}
	}

	return s.Get(ctx, uid)
}

func profileFromMongoDoc(doc *mongoUserDoc) *models.UserProfile {
	return &models.UserProfile{
		UID:         doc.UID,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		CreatedAt:   doc.CreatedAt,
	}
}
