package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Cache backends for the library catalog and device registry.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all configuration values from environment.
type Config struct {
	AppPort string

	// REST backend that persists plants, library assets, devices and scenes.
	BackendURL     string
	BackendToken   string
	BackendTimeout time.Duration

	CacheBackend string
	CacheTTL     time.Duration
	RedisAddr    string

	// Optional object storage holding library models; when set, bare model
	// keys are turned into presigned URLs.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool
	MinioRegion    string
	ModelURLTTL    time.Duration

	AssimpPath string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	minioSSL := false
	if sslEnv := os.Getenv("MINIO_SSL"); sslEnv != "" {
		val, err := strconv.ParseBool(sslEnv)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIO_SSL value: %v", err)
		}
		minioSSL = val
	}
	backendTimeout, err := durationEnv("BACKEND_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationEnv("CACHE_TTL", time.Minute)
	if err != nil {
		return nil, err
	}
	modelURLTTL, err := durationEnv("MODEL_URL_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppPort:        getEnv("EDITOR_PORT", "8090"),
		BackendURL:     getEnv("BACKEND_URL", "http://127.0.0.1:8000/api/"),
		BackendToken:   os.Getenv("BACKEND_TOKEN"),
		BackendTimeout: backendTimeout,
		CacheBackend:   getEnv("CACHE_BACKEND", CacheMemory),
		CacheTTL:       cacheTTL,
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioSSL:       minioSSL,
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		ModelURLTTL:    modelURLTTL,
		AssimpPath:     getEnv("ASSIMP_PATH", "assimp"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL %q", c.BackendURL)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	switch c.CacheBackend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis cache requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	minioFields := []string{c.MinioEndpoint, c.MinioAccessKey, c.MinioSecretKey, c.MinioBucket}
	set := 0
	for _, f := range minioFields {
		if f != "" {
			set++
		}
	}
	if set != 0 && set != len(minioFields) {
		return fmt.Errorf("minio configuration is incomplete")
	}
	return nil
}

// MinioEnabled reports whether model keys should be presigned.
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %v", key, err)
	}
	return d, nil
}
