package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

const (
	defaultDBDriver     = "sqlite"
	defaultDBConnection = "./data/tagbox.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret     string
	JWTExpiry     time.Duration
	AuthRateLimit bool // Limit login/register attempts per IP

	// Uploads
	MaxUploadSize   int64
	DefaultTagColor string

	// Observability (optional)
	SentryDSN string
	LogFile   string

	// Storage: "local" writes blobs under UploadDir, "s3" uses any S3-compatible bucket
	StorageDriver string
	UploadDir     string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Tagbox"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", defaultDBDriver),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),

		// Security
		JWTSecret:     envRequired("JWT_SECRET"),
		JWTExpiry:     envDuration("JWT_EXPIRY", 24*time.Hour),
		AuthRateLimit: envBool("AUTH_RATE_LIMIT", true),

		// Uploads
		MaxUploadSize:   envInt64("MAX_UPLOAD_SIZE", 50<<20), // 50MB
		DefaultTagColor: envString("DEFAULT_TAG_COLOR", "#C80000"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
		LogFile:   envString("LOG_FILE", ""),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", StorageDriverLocal),
		UploadDir:     envString("UPLOAD_DIR", "./data/uploads"),
	}

	// S3 credentials are only needed when blobs go to a bucket
	if cfg.StorageDriver == StorageDriverS3 {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envRequired("S3_ACCESS_KEY")
		cfg.S3SecretKey = envRequired("S3_SECRET_KEY")
		cfg.S3Endpoint = envString("S3_ENDPOINT", "")
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// LoadDatabase reads only the database settings, for tools such as the
// migration command that must not require the server's secrets.
func LoadDatabase() (driver, connection string) {
	_ = godotenv.Load()
	return envString("DB_DRIVER", defaultDBDriver), envString("DB_CONNECTION", defaultDBConnection)
}

// validateProduction rejects settings that are only acceptable for local development.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 characters")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
