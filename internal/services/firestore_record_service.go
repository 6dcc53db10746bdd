package services

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/teamlog/backend/internal/models"
	"github.com/teamlog/backend/internal/week"
)

type FirestoreRecordService struct {
	records *firestore.CollectionRef
}

type firestoreRecordDoc struct {
	UserID        string             `firestore:"userId"`
	Date          string             `firestore:"date"`
	Weight        float64            `firestore:"weight"`
	Height        *float64           `firestore:"height"`
	CustomMetrics map[string]float64 `firestore:"customMetrics"`
	CreatedAt     time.Time          `firestore:"createdAt"`
	UpdatedAt     time.Time          `firestore:"updatedAt"`
}

func NewFirestoreRecordService(client *firestore.Client) *FirestoreRecordService {
	return &FirestoreRecordService{records: client.Collection(colRecords)}
}

func (s *FirestoreRecordService) Upsert(ctx context.Context, userID string, period week.PeriodKey, weight float64, height *float64, customMetrics map[string]float64) (*models.PeriodicRecord, error) {
	now := time.Now()
	periodKey := period.String()

	// Read-then-write; concurrent upserts for the same (user, period) race
	// and the last writer wins.
	iter := s.records.
		Where("userId", "==", userID).
		Where("date", "==", periodKey).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	var recordID string
	var created time.Time

	switch {
	case err == iterator.Done:
		doc := firestoreRecordDoc{
			UserID:        userID,
			Date:          periodKey,
			Weight:        weight,
			Height:        height,
			CustomMetrics: cloneMetricValues(customMetrics),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		ref, _, err := s.records.Add(ctx, doc)
		if err != nil {
			return nil, err
		}
		recordID = ref.ID
		created = now
	case err != nil:
		return nil, err
	default:
		update := map[string]interface{}{
			"weight":        weight,
			"customMetrics": cloneMetricValues(customMetrics),
			"updatedAt":     now,
		}
		// Merge: an omitted height never erases a stored one.
		if height != nil {
			update["height"] = *height
		}
		if _, err := snap.Ref.Set(ctx, update, firestore.MergeAll); err != nil {
			return nil, err
		}
		var existing firestoreRecordDoc
		if err := snap.DataTo(&existing); err != nil {
			return nil, err
		}
		recordID = snap.Ref.ID
		created = timeOrNow(existing.CreatedAt)
		if height == nil {
			height = existing.Height
		}
	}

	if height != nil && *height > 0 {
		// Best-effort: records updated before a failure keep the new height,
		// the rest are picked up on the next entry.
		if err := s.backfillHeight(ctx, userID, *height); err != nil {
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

// backfillHeight writes the freshly entered height into every record of the
// user whose height is absent, null or zero. One update per document, no
// batch or transaction.
func (s *FirestoreRecordService) backfillHeight(ctx context.Context, userID string, height float64) error {
	iter := s.records.Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		var doc firestoreRecordDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if doc.Height != nil && *doc.Height != 0 {
			continue
		}
		if _, err := snap.Ref.Update(ctx, []firestore.Update{{Path: "height", Value: height}}); err != nil {
			return err
		}
	}
}

func (s *FirestoreRecordService) ListByUser(ctx context.Context, userID string) ([]*models.PeriodicRecord, error) {
	iter := s.records.
		Where("userId", "==", userID).
		OrderBy("date", firestore.Desc).
		Documents(ctx)
	return collectRecords(iter)
}

func (s *FirestoreRecordService) ListAll(ctx context.Context) ([]*models.PeriodicRecord, error) {
	iter := s.records.OrderBy("date", firestore.Desc).Documents(ctx)
	return collectRecords(iter)
}

func collectRecords(iter *firestore.DocumentIterator) ([]*models.PeriodicRecord, error) {
	defer iter.Stop()

	out := make([]*models.PeriodicRecord, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var doc firestoreRecordDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		period, err := week.ParseKey(doc.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.PeriodicRecord{
			ID:            snap.Ref.ID,
			UserID:        doc.UserID,
			Period:        period,
			Weight:        doc.Weight,
			Height:        doc.Height,
			CustomMetrics: doc.CustomMetrics,
			CreatedAt:     timeOrNow(doc.CreatedAt),
			UpdatedAt:     timeOrNow(doc.UpdatedAt),
		})
	}
}
