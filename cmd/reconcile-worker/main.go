package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/teamlog/backend/internal/config"
	"github.com/teamlog/backend/internal/services"
)

// One-shot batch job that walks every conversation and rewrites the
// denormalized last-message fields from the newest message in the thread.
// Run it from cron or a scheduler; each run is independent and safe to
// repeat. The memory backend reads its own snapshots in-process and never
// drifts, so only the hosted backends are supported here.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var reconciler services.SummaryReconciler

	switch cfg.StoreBackend {
	case "firestore":
		client, err := services.NewFirestoreClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
		if err != nil {
			log.Printf("[worker] firestore init failed: %v", err)
			os.Exit(1)
		}
		defer client.Close()
		reconciler = services.NewFirestoreChatService(client)
	case "mongo":
		db, err := services.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Printf("[worker] mongo init failed: %v", err)
			os.Exit(1)
		}
		defer db.Client().Disconnect(ctx)
		reconciler = services.NewMongoChatService(ctx, db)
	default:
		log.Printf("[worker] STORE_BACKEND=%q has no reconcile support", cfg.StoreBackend)
		os.Exit(1)
	}

	log.Printf("[worker] reconcile run starting (store=%s)", cfg.StoreBackend)
	start := time.Now()

	stats, err := reconciler.ReconcileSummaries(ctx)
	if err != nil {
		log.Printf("[worker] reconcile failed after %d conversations: %v", stats.Checked, err)
		os.Exit(1)
	}

	log.Printf("[worker] DONE checked=%d repaired=%d elapsed=%s", stats.Checked, stats.Repaired, time.Since(start).Round(time.Millisecond))
}
