package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Env             string // "production" selects JSON logs
	ServerAddress   string
	ShutdownTimeout time.Duration

	// UploadDir is where product photos are written and served from.
	UploadDir string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	RedisURL      string // optional; enables the category cache

	// FormSecret signs the hidden edit-form field.
	FormSecret string

	DataDriverDelay time.Duration
	RepeatCount     int
}

// Load reads the configuration from the environment, after loading a .env
// file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getenvDefault("APP_ENV", "development"),
		ServerAddress: getenvDefault("SERVER_ADDRESS", ":8080"),
		UploadDir:     getenvDefault("UPLOAD_DIR", "./uploads"),
		StoreDriver:   getenvDefault("STORE_DRIVER", DriverMongo),
		MongoURI:      getenvDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenvDefault("MONGO_DATABASE", "catalog"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		FormSecret:    getenvDefault("FORM_SECRET", "change-me"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.DataDriverDelay, err = getDuration("DATADRIVER_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.RepeatCount, err = getInt("REPEAT_COUNT", 5000); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverMongo:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: %s=%q is not a valid count", k, v)
	}
	return n, nil
}
