package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	Port              string
	DBName            string
	RecordsCollection string
	UsersCollection   string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration

	RedisAddr  string
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	// Object store (survey images)
	BlobEndpoint  string
	BlobAccessKey string
	BlobSecretKey string
	BlobBucket    string
	BlobUseSSL    bool

	// Export pipeline tuning
	ExportBatchDelay  time.Duration
	ImageFetchTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := &Config{
		MongoURI:          mongoURI,
		Port:              port,
		DBName:            getEnv("DB_NAME", "sitesurvey"),
		RecordsCollection: getEnv("COLLECTION_RECORDS", "survey_records"),
		UsersCollection:   getEnv("COLLECTION_USERS", "users"),
		ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),

		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTIssuer:  getEnv("JWT_ISSUER", "sitesurvey"),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		BlobEndpoint:  getEnv("BLOB_ENDPOINT", "localhost:9000"),
		BlobAccessKey: os.Getenv("BLOB_ACCESS_KEY"),
		BlobSecretKey: os.Getenv("BLOB_SECRET_KEY"),
		BlobBucket:    getEnv("BLOB_BUCKET", "survey-images"),
		BlobUseSSL:    getEnvBool("BLOB_USE_SSL", false),

		ExportBatchDelay:  getEnvDuration("EXPORT_BATCH_DELAY", 400*time.Millisecond),
		ImageFetchTimeout: getEnvDuration("IMAGE_FETCH_TIMEOUT", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Try parsing as duration string? e.g. "10s"
		d, err := time.ParseDuration(valStr)
		if err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
