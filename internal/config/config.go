package config

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		MigrationsDir:  getEnvOrDefault("MIGRATIONS_DIR", "./migrations"),
		StorageBackend: strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", BackendSQLite)),
		JWTSecret:      getEnv("JWT_SECRET"),
		CORSOrigins:    splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		ProjectID: os.Getenv("GCP_PROJECT"),
	}

	switch cfg.StorageBackend {
	case BackendMongo:
		cfg.Mongo = MongoConfig{
			URI:      getEnv("MONGO_URI"),
			Database: getEnvOrDefault("MONGO_DB", "courtside"),
		}
	case BackendSQLite:
		cfg.DBName = getEnv("DB_NAME")
	default:
		log.Fatalf("Error: Unknown STORAGE_BACKEND %q, expected %q or %q.", cfg.StorageBackend, BackendSQLite, BackendMongo)
	}
	return cfg
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
