package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"ENVIRONMENT": "development",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 10000, cfg.Server.Port)
				assert.Equal(t, []string{"HS256"}, cfg.Auth.Algorithms)
				assert.Equal(t, defaultOrigins, cfg.CORS.AllowedOrigins)
				assert.Equal(t, "Properties", cfg.Airtable.Table)
				assert.Equal(t, "Grid view", cfg.Airtable.View)
				assert.False(t, cfg.Properties.AllowDiagOverrides)
			},
		},
		{
			name: "CORS origins parsed and trimmed",
			envVars: map[string]string{
				"CORS_ORIGINS": "https://app.example.com , https://*.preview.example.com,",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t,
					[]string{"https://app.example.com", "https://*.preview.example.com"},
					cfg.CORS.AllowedOrigins)
			},
		},
		{
			name: "JWT_SECRET fallback when SUPABASE_JWT_SECRET unset",
			envVars: map[string]string{
				"JWT_SECRET": "legacy-secret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "legacy-secret", cfg.Auth.JWTSecret)
			},
		},
		{
			name: "SUPABASE_JWT_SECRET takes precedence",
			envVars: map[string]string{
				"SUPABASE_JWT_SECRET": "canonical",
				"JWT_SECRET":          "legacy",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "canonical", cfg.Auth.JWTSecret)
			},
		},
		{
			name: "provider selector lowercased",
			envVars: map[string]string{
				"PROPERTIES_PROVIDER":       "Airtable",
				"PROPERTIES_OWNER_FIELD":    "owner_id",
				"PROPERTIES_DEBUG_OVERRIDES": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "airtable", cfg.Properties.Provider)
				assert.Equal(t, "owner_id", cfg.Properties.OwnerField)
				assert.True(t, cfg.Properties.AllowDiagOverrides)
			},
		},
		{
			name: "airtable view trimmed",
			envVars: map[string]string{
				"AIRTABLE_VIEW_PROPERTIES": "  API view  ",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "API view", cfg.Airtable.View)
			},
		},
		{
			name: "DATABASE_URL takes precedence over DB_* fields",
			envVars: map[string]string{
				"DATABASE_URL": "postgres://user:pw@db.example.com:6543/records",
				"DB_HOST":      "ignored",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://user:pw@db.example.com:6543/records", cfg.Database.DSN())
				assert.Equal(t, "host=db.example.com port=6543 database=records", cfg.Database.LogString())
			},
		},
		{
			name: "custom timeouts and pool settings",
			envVars: map[string]string{
				"SERVER_READ_TIMEOUT":  "60s",
				"SERVER_WRITE_TIMEOUT": "90s",
				"DB_MAX_OPEN_CONNS":    "50",
				"DB_MAX_IDLE_CONNS":    "10",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 50, cfg.Database.MaxOpenConns)
				assert.Equal(t, 10, cfg.Database.MaxIdleConns)
			},
		},
		{
			name: "PORT env var takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"PORT":        "9443",
				"SERVER_PORT": "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9443, cfg.Server.Port)
			},
		},
		{
			name: "algorithm allowlist parsed from env",
			envVars: map[string]string{
				"JWT_ALGORITHMS": "HS256,HS512",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"HS256", "HS512"}, cfg.Auth.Algorithms)
			},
		},
		{
			name: "production requires JWT secret",
			envVars: map[string]string{
				"ENVIRONMENT": "production",
			},
			wantErr: true,
		},
		{
			name: "production with secret is valid",
			envVars: map[string]string{
				"ENVIRONMENT":         "production",
				"SUPABASE_JWT_SECRET": "s3cret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.False(t, cfg.IsDevelopment())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := New()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestServerConfigAddress(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 10000}
	assert.Equal(t, "127.0.0.1:10000", cfg.Address())
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "svc",
		Password: "pw",
		Database: "records",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=svc password=pw dbname=records sslmode=disable",
		cfg.DSN())
}
