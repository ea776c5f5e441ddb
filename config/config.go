package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration. It is built
// once at process start and passed into component constructors; no
// component reads the environment at call time.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Auth        AuthConfig
	Properties  PropertiesConfig
	Airtable    AirtableConfig
	Database    DatabaseConfig
	Log         LogConfig
	Environment string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// CORSConfig holds the allowed-origin patterns. A pattern is either an
// exact origin or contains a single "*" wildcard.
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds token verification settings (Supabase legacy JWT secret)
type AuthConfig struct {
	JWTSecret  string
	Algorithms []string
}

// PropertiesConfig selects and tunes the active property provider
type PropertiesConfig struct {
	Provider           string // "airtable" or "postgres"
	OwnerField         string // owner column for providers that accept one
	Table              string // relational table name
	AllowDiagOverrides bool   // gate for bypassEmail / email query overrides
}

// AirtableConfig holds Airtable connection settings
type AirtableConfig struct {
	APIKey  string
	BaseID  string
	BaseURL string
	Table   string
	View    string
	Timeout time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // json or console
}

// defaultOrigins is the conservative fallback when CORS_ORIGINS is unset.
var defaultOrigins = []string{
	"https://aircasa-app.vercel.app",
	"http://localhost:3000",
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present (no error when missing)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: loadOrigins(),
		},
		Auth: AuthConfig{
			// SUPABASE_JWT_SECRET is the canonical name; JWT_SECRET kept
			// as a fallback for older deployments.
			JWTSecret:  firstEnv("SUPABASE_JWT_SECRET", "JWT_SECRET"),
			Algorithms: getEnvAsList("JWT_ALGORITHMS", []string{"HS256"}),
		},
		Properties: PropertiesConfig{
			Provider:           strings.ToLower(getEnv("PROPERTIES_PROVIDER", "")),
			OwnerField:         getEnv("PROPERTIES_OWNER_FIELD", ""),
			Table:              getEnv("SUPABASE_TABLE_PROPERTIES", ""),
			AllowDiagOverrides: getEnvAsBool("PROPERTIES_DEBUG_OVERRIDES", false),
		},
		Airtable: AirtableConfig{
			APIKey:  getEnv("AIRTABLE_API_KEY", ""),
			BaseID:  getEnv("AIRTABLE_BASE_ID", ""),
			BaseURL: getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
			Table:   getEnv("AIRTABLE_TABLE_PROPERTIES", "Properties"),
			View:    strings.TrimSpace(getEnv("AIRTABLE_VIEW_PROPERTIES", "Grid view")),
			Timeout: getEnvAsDuration("AIRTABLE_TIMEOUT", 30*time.Second),
		},
		Database: loadDatabaseConfig(),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set.
// Provider-specific settings are validated lazily by the providers
// themselves so a misconfigured provider surfaces per request instead of
// preventing the process from serving /healthz.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if len(c.Auth.Algorithms) == 0 {
		return fmt.Errorf("at least one JWT algorithm is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required in production")
	}
	if c.Log.Level == "" {
		return fmt.Errorf("log level is required")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadOrigins parses CORS_ORIGINS as a comma-separated pattern list,
// falling back to the conservative defaults when unset.
func loadOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		out := make([]string, len(defaultOrigins))
		copy(out, defaultOrigins)
		return out
	}
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// loadDatabaseConfig loads database config from DATABASE_URL or DB_* env vars
func loadDatabaseConfig() DatabaseConfig {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", ""),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", ""),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 10000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 10000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
