package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Local     LocalStoreConfig
	Sync      SyncConfig
	Identity  IdentityConfig
	Content   ContentConfig
	WebSocket WebSocketConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// DatabaseConfig points at the CouchDB instance holding per-user documents.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Enabled  bool
}

type LocalStoreConfig struct {
	Path       string
	QuotaBytes int64
}

type SyncConfig struct {
	Debounce time.Duration
}

type IdentityConfig struct {
	TokenSecret string
}

type ContentConfig struct {
	Dir   string
	Watch bool
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxConnPerUser  int
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	Enabled           bool
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	godotenv.Load()

	debounce, err := time.ParseDuration(getEnv("SYNC_DEBOUNCE", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_DEBOUNCE: %w", err)
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("invalid SYNC_DEBOUNCE: must be positive")
	}

	quota, err := strconv.ParseInt(getEnv("LOCAL_STORE_QUOTA_BYTES", "5242880"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCAL_STORE_QUOTA_BYTES: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "127.0.0.1"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5984"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "aozu_users"),
			Enabled:  getEnvAsBool("SYNC_ENABLED", true),
		},
		Local: LocalStoreConfig{
			Path:       getEnv("LOCAL_STORE_PATH", "aozu-local.db"),
			QuotaBytes: quota,
		},
		Sync: SyncConfig{
			Debounce: debounce,
		},
		Identity: IdentityConfig{
			TokenSecret: getEnv("IDENTITY_TOKEN_SECRET", "dev-secret-change-in-production"),
		},
		Content: ContentConfig{
			Dir:   getEnv("CONTENT_DIR", "content"),
			Watch: getEnvAsBool("CONTENT_WATCH", true),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER_SIZE", 1024),
			MaxMessageSize:  int64(getEnvAsInt("WS_MAX_MESSAGE_SIZE", 65536)),
			WriteWait:       10 * time.Second,
			PongWait:        60 * time.Second,
			PingPeriod:      54 * time.Second,
			MaxConnPerUser:  getEnvAsInt("WS_MAX_CONN_PER_USER", 5),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 600),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 50),
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}, nil
}

// CouchURL is the authenticated base URL for the kivik couch driver.
func (c DatabaseConfig) CouchURL() string {
	return fmt.Sprintf("http://%s:%s@%s:%s", c.User, c.Password, c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
