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

type FirestoreMetricService struct {
	metrics *firestore.CollectionRef
}

type firestoreMetricDoc struct {
	Name      string    `firestore:"name"`
	Unit      string    `firestore:"unit"`
	Color     string    `firestore:"color"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func NewFirestoreMetricService(client *firestore.Client) *FirestoreMetricService {
	return &FirestoreMetricService{metrics: client.Collection(colMetrics)}
}

func (s *FirestoreMetricService) Create(ctx context.Context, req *models.CreateMetricRequest) (*models.MetricDefinition, error) {
	now := time.Now()
	doc := firestoreMetricDoc{
		Name:      req.Name,
		Unit:      req.Unit,
		Color:     req.Color,
		CreatedAt: now,
	}
	ref, _, err := s.metrics.Add(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &models.MetricDefinition{
		ID:        ref.ID,
		Name:      req.Name,
		Unit:      req.Unit,
		Color:     req.Color,
		CreatedAt: now,
	}, nil
}

func (s *FirestoreMetricService) List(ctx context.Context) ([]*models.MetricDefinition, error) {
	iter := s.metrics.OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := make([]*models.MetricDefinition, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var doc firestoreMetricDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		out = append(out, &models.MetricDefinition{
			ID:        snap.Ref.ID,
			Name:      doc.Name,
			Unit:      doc.Unit,
			Color:     doc.Color,
			CreatedAt: timeOrNow(doc.CreatedAt),
		})
	}
}

func (s *FirestoreMetricService) Update(ctx context.Context, metricID string, req *models.UpdateMetricRequest) (*models.MetricDefinition, error) {
	update := make(map[string]interface{})
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Unit != nil {
		update["unit"] = *req.Unit
	}
	if req.Color != nil {
		update["color"] = *req.Color
	}

	// Existence check first: a merge Set on a missing id would create it.
	ref := s.metrics.Doc(metricID)
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrMetricNotFound
		}
		return nil, err
	}

	if len(update) > 0 {
		if _, err := ref.Set(ctx, update, firestore.MergeAll); err != nil {
			return nil, err
		}
		snap, err = ref.Get(ctx)
		if err != nil {
			return nil, err
		}
	}
	var doc firestoreMetricDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return &models.MetricDefinition{
		ID:        snap.Ref.ID,
		Name:      doc.Name,
		Unit:      doc.Unit,
		Color:     doc.Color,
		CreatedAt: timeOrNow(doc.CreatedAt),
	}, nil
}

// Delete removes the definition document only; records keep their values
// under the orphaned id.
func (s *FirestoreMetricService) Delete(ctx context.Context, metricID string) error {
	snap, err := s.metrics.Doc(metricID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrMetricNotFound
		}
		return err
	}
	_, err = snap.Ref.Delete(ctx)
	return err
}
