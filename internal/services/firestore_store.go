package services

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Collection names shared by the Firestore services and the reconcile worker.
const (
	colUsers         = "users"
	colRecords       = "records"
	colMetrics       = "metrics"
	colConversations = "conversations"
	colMessages      = "messages" // subcollection of conversations
)

// NewFirestoreClient builds the shared Firestore client. The client is
// injected into each service at construction; services never reach for a
// package-level instance.
func NewFirestoreClient(ctx context.Context, projectID, credentialsJSON string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}

// timeOrNow guards against documents whose timestamp field is absent or was
// written with an unexpected type and decoded to the zero value.
func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
