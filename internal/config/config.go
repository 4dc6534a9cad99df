package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Upstream concursos API
	BackendBaseURL string        `json:"backend_base_url"`
	BackendTimeout time.Duration `json:"backend_timeout"`

	// MongoDB configuration (notice drafts only; published data lives upstream)
	MongoURI              string `json:"mongo_uri"`
	MongoDatabase         string `json:"mongo_database"`
	NoticeDraftCollection string `json:"mongo_notice_draft_collection"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Session and wizard state
	TokenCookieName string        `json:"token_cookie_name"`
	TokenCookieTTL  time.Duration `json:"token_cookie_ttl"`
	RegistrationTTL time.Duration `json:"registration_ttl"`
	ResetCooldown   time.Duration `json:"reset_cooldown"`

	// Authorization
	AdminRole string `json:"admin_role"`

	// Login rate limiting
	LoginRatePerSecond float64 `json:"login_rate_per_second"`
	LoginRateBurst     int     `json:"login_rate_burst"`

	// Upload caps
	MaxNoticePDFBytes int64 `json:"max_notice_pdf_bytes"`
	MaxExemptionBytes int64 `json:"max_exemption_bytes"`
	MaxExemptionFiles int   `json:"max_exemption_files"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables. A local .env
// file is honored when present.
func LoadConfig() error {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backendURL := os.Getenv("BACKEND_BASE_URL")
	if backendURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL environment variable is required")
	}

	backendTimeout, err := time.ParseDuration(getEnvOrDefault("BACKEND_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}

	tokenTTL, err := time.ParseDuration(getEnvOrDefault("TOKEN_COOKIE_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid TOKEN_COOKIE_TTL: %w", err)
	}

	registrationTTL, err := time.ParseDuration(getEnvOrDefault("REGISTRATION_TTL", "1h"))
	if err != nil {
		return fmt.Errorf("invalid REGISTRATION_TTL: %w", err)
	}

	resetCooldown, err := time.ParseDuration(getEnvOrDefault("RESET_COOLDOWN", "60s"))
	if err != nil {
		return fmt.Errorf("invalid RESET_COOLDOWN: %w", err)
	}

	loginRate, err := strconv.ParseFloat(getEnvOrDefault("LOGIN_RATE_PER_SECOND", "1"), 64)
	if err != nil {
		return fmt.Errorf("invalid LOGIN_RATE_PER_SECOND: %w", err)
	}

	loginBurst, err := strconv.Atoi(getEnvOrDefault("LOGIN_RATE_BURST", "5"))
	if err != nil {
		return fmt.Errorf("invalid LOGIN_RATE_BURST: %w", err)
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Upstream concursos API
		BackendBaseURL: backendURL,
		BackendTimeout: backendTimeout,

		// MongoDB configuration
		MongoURI:              getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnvOrDefault("MONGODB_DATABASE", "edital360"),
		NoticeDraftCollection: getEnvOrDefault("MONGODB_NOTICE_DRAFT_COLLECTION", "notice_drafts"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Session and wizard state
		TokenCookieName: getEnvOrDefault("TOKEN_COOKIE_NAME", "token"),
		TokenCookieTTL:  tokenTTL,
		RegistrationTTL: registrationTTL,
		ResetCooldown:   resetCooldown,

		// Authorization
		AdminRole: getEnvOrDefault("ADMIN_ROLE", "edital360-admin"),

		// Login rate limiting
		LoginRatePerSecond: loginRate,
		LoginRateBurst:     loginBurst,

		// Upload caps
		MaxNoticePDFBytes: 10 << 20,
		MaxExemptionBytes: 50 << 20,
		MaxExemptionFiles: 10,

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
