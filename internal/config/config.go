package config

import (
	"os"
	"time"
)

type Config struct {
	ServerAddress string

	// StoreBackend selects the document store: "firestore" (default),
	// "mongo", or "memory" (JSON-file backed, for local development).
	StoreBackend string
	DataDir      string

	MongoURI string
	MongoDB  string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	// Local-auth fallback, used when Firebase credentials are absent.
	JWTSecret     string
	JWTExpiration time.Duration
}

func Load() *Config {
	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		StoreBackend:            getEnv("STORE_BACKEND", "firestore"),
		DataDir:                 getEnv("DATA_DIR", "./data"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "teamlog"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:           24 * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
