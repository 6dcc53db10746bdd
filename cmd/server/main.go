package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/teamlog/backend/internal/config"
	"github.com/teamlog/backend/internal/handlers"
	appMiddleware "github.com/teamlog/backend/internal/middleware"
	"github.com/teamlog/backend/internal/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Store clients are built here and injected into each service; no
	// package-level singletons.
	var (
		recordService  services.RecordService
		metricService  services.MetricService
		chatService    services.ChatService
		profileService services.ProfileService
	)

	switch cfg.StoreBackend {
	case "firestore":
		client, err := services.NewFirestoreClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
		if err != nil {
			log.Fatalf("Failed to connect to Firestore: %v", err)
		}
		recordService = services.NewFirestoreRecordService(client)
		metricService = services.NewFirestoreMetricService(client)
		chatService = services.NewFirestoreChatService(client)
		profileService = services.NewFirestoreProfileService(client)
	case "mongo":
		db, err := services.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		recordService = services.NewMongoRecordService(ctx, db)
		metricService = services.NewMongoMetricService(ctx, db)
		chatService = services.NewMongoChatService(ctx, db)
		profileService = services.NewMongoProfileService(ctx, db)
	case "memory":
		var err error
		if recordService, err = services.NewMemoryRecordService(cfg.DataDir); err != nil {
			log.Fatalf("Failed to open record store: %v", err)
		}
		if metricService, err = services.NewMemoryMetricService(cfg.DataDir); err != nil {
			log.Fatalf("Failed to open metric store: %v", err)
		}
		if chatService, err = services.NewMemoryChatService(cfg.DataDir); err != nil {
			log.Fatalf("Failed to open chat store: %v", err)
		}
		if profileService, err = services.NewMemoryProfileService(cfg.DataDir); err != nil {
			log.Fatalf("Failed to open profile store: %v", err)
		}
	default:
		log.Fatalf("Unknown STORE_BACKEND %q (want firestore, mongo or memory)", cfg.StoreBackend)
	}

	// Local email/password accounts, used when Firebase Auth is not set up.
	userService, err := services.NewUserService(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}

	// Firebase Auth (server-side verification of ID tokens). Falls back to
	// locally issued JWTs when credentials are missing.
	authMiddleware := appMiddleware.JWTAuth(cfg.JWTSecret)
	authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsJSON: cfg.FirebaseCredentialsJSON,
	})
	if err != nil {
		log.Printf("Warning: Firebase Auth unavailable, using local JWT auth: %v", err)
	} else {
		authMiddleware = appMiddleware.FirebaseAuth(authClient)
	}

	authHandler := handlers.NewAuthHandler(userService, profileService, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profileService)
	weekHandler := handlers.NewWeekHandler()
	recordHandler := handlers.NewRecordHandler(recordService)
	metricHandler := handlers.NewMetricHandler(metricService)
	chatHandler := handlers.NewChatHandler(chatService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", profileHandler.ListUsers)
				r.Get("/me", profileHandler.GetMe)
				r.Put("/me", profileHandler.UpdateMe)
			})

			r.Get("/weeks", weekHandler.ListRecentWeeks)

			r.Route("/records", func(r chi.Router) {
				r.Get("/", recordHandler.ListAllRecords)
				r.Get("/me", recordHandler.ListMyRecords)
				r.Post("/", recordHandler.UpsertRecord)
			})

			r.Route("/metrics", func(r chi.Router) {
				r.Get("/", metricHandler.ListMetrics)
				r.Get("/colors", metricHandler.ListPresetColors)
				r.Post("/", metricHandler.CreateMetric)
				r.Put("/{metricId}", metricHandler.UpdateMetric)
				r.Delete("/{metricId}", metricHandler.DeleteMetric)
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", chatHandler.ListConversations)
				r.Post("/", chatHandler.StartConversation)

				r.Route("/{conversationId}", func(r chi.Router) {
					r.Get("/", chatHandler.GetConversation)
					r.Get("/messages", chatHandler.ListMessages)
					r.Post("/messages", chatHandler.SendMessage)
				})
			})
		})
	})

	log.Printf("teamlog API server starting on %s (store=%s)", cfg.ServerAddress, cfg.StoreBackend)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
