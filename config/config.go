package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env when GO_ENV is unset or "development".
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string
	PORT   int

	// Database
	DB_DRIVER    string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	DB_PATH      string

	// Auth
	JWT_SECRET         string
	JWT_ISSUER         string
	JWT_TTL            time.Duration
	BCRYPT_COST        int
	ALLOW_ADMIN_SIGNUP bool

	// Redis (login throttling only)
	REDIS_URL string

	// HTTP
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int

	// Resume storage
	STORAGE_DRIVER     string
	UPLOAD_DIR         string
	MAX_RESUME_BYTES   int64
	MAX_RESUME_PAGES   int
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string

	// Seeding
	SEED_ADMIN_EMAIL    string
	SEED_ADMIN_PASSWORD string
}

const (
	DefaultTokenTTL       = 30 * 24 * time.Hour
	DefaultBcryptCost     = 12
	DefaultMaxResumeBytes = 5 << 20
	DefaultMaxResumePages = 20
)

func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	jwtTTL := DefaultTokenTTL
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		jwtTTL, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", raw, err)
		}
	}

	env := &EnvironmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,

		DB_DRIVER:    getOrDefault("DB_DRIVER", "postgres"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getOrDefault("DB_SSL_MODE", "disable"),
		DB_PATH:      getOrDefault("DB_PATH", "jobboard.db"),

		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		JWT_ISSUER:         getOrDefault("JWT_ISSUER", "campus-jobboard-api"),
		JWT_TTL:            jwtTTL,
		BCRYPT_COST:        getInt("BCRYPT_COST", DefaultBcryptCost),
		ALLOW_ADMIN_SIGNUP: getBool("ALLOW_ADMIN_SIGNUP", true),

		REDIS_URL: os.Getenv("REDIS_URL"),

		ALLOWED_ORIGINS:     getOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RATE_LIMIT_REQUESTS: getInt("RATE_LIMIT_REQUESTS", 100),

		STORAGE_DRIVER:     getOrDefault("STORAGE_DRIVER", "local"),
		UPLOAD_DIR:         getOrDefault("UPLOAD_DIR", "./uploads/resumes"),
		MAX_RESUME_BYTES:   int64(getInt("MAX_RESUME_BYTES", DefaultMaxResumeBytes)),
		MAX_RESUME_PAGES:   getInt("MAX_RESUME_PAGES", DefaultMaxResumePages),
		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   getOrDefault("DO_SPACES_REGION", "nyc3"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),

		SEED_ADMIN_EMAIL:    os.Getenv("SEED_ADMIN_EMAIL"),
		SEED_ADMIN_PASSWORD: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	return env, nil
}

// Validate reports configuration that would leave the server unusable.
func (e *EnvironmentVariable) Validate() error {
	if strings.TrimSpace(e.JWT_SECRET) == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	switch e.DB_DRIVER {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", e.DB_DRIVER)
	}

	switch e.STORAGE_DRIVER {
	case "local":
	case "spaces":
		if e.DO_SPACES_BUCKET == "" || e.DO_SPACES_ENDPOINT == "" {
			return errors.New("DO_SPACES_BUCKET and DO_SPACES_ENDPOINT are required for the spaces storage driver")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", e.STORAGE_DRIVER)
	}

	if e.MAX_RESUME_BYTES <= 0 {
		return errors.New("MAX_RESUME_BYTES must be positive")
	}

	return nil
}

func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
