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

// FirestoreProfileService stores profiles in the users collection, keyed by
// the auth provider's UID.
type FirestoreProfileService struct {
	users *firestore.CollectionRef
}

type firestoreUserDoc struct {
	DisplayName string    `firestore:"displayName"`
	Email       string    `firestore:"email"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func NewFirestoreProfileService(client *firestore.Client) *FirestoreProfileService {
	return &FirestoreProfileService{users: client.Collection(colUsers)}
}

func (s *FirestoreProfileService) Ensure(ctx context.Context, uid, displayName, email string) (*models.UserProfile, error) {
	ref := s.users.Doc(uid)
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, err
		}
		now := time.Now()
		doc := firestoreUserDoc{DisplayName: displayName, Email: email, CreatedAt: now}
		if _, err := ref.Set(ctx, doc); err != nil {
			return nil, err
		}
		return &models.UserProfile{UID: uid, DisplayName: displayName, Email: email, CreatedAt: now}, nil
	}

	var doc firestoreUserDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}

	// Fill blanks from the auth provider, never overwrite edits.
	fill := make(map[string]interface{})
	if doc.DisplayName == "" && displayName != "" {
		fill["displayName"] = displayName
		doc.DisplayName = displayName
	}
	if doc.Email == "" && email != "" {
		fill["email"] = email
		doc.Email = email
	}
	if len(fill) > 0 {
		if _, err := ref.Set(ctx, fill, firestore.MergeAll); err != nil {
			return nil, err
		}
	}

	return &models.UserProfile{
		UID:         uid,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		CreatedAt:   timeOrNow(doc.CreatedAt),
	}, nil
}

func (s *FirestoreProfileService) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	iter := s.users.Documents(ctx)
	defer iter.Stop()

	out := make([]*models.UserProfile, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var doc firestoreUserDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		out = append(out, &models.UserProfile{
			UID:         snap.Ref.ID,
			DisplayName: doc.DisplayName,
			Email:       doc.Email,
			CreatedAt:   timeOrNow(doc.CreatedAt),
		})
	}
}

func (s *FirestoreProfileService) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	snap, err := s.users.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	var doc firestoreUserDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return &models.UserProfile{
		UID:         uid,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		CreatedAt:   timeOrNow(doc.CreatedAt),
	}, nil
}

func (s *FirestoreProfileService) Update(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	ref := s.users.Doc(uid)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	update := make(map[string]interface{})
	if req.DisplayName != nil {
		update["displayName"] = *req.DisplayName
	}
	if req.Email != nil {
		update["email"] = *req.Email
	}
	if len(update) > 0 {
		if _, err := ref.Set(ctx, update, firestore.MergeAll); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, uid)
}
