package app

import (
	"context"
	"testing"

	"github.com/aircasa/aircasa-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func airtableConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://aircasa-app.vercel.app", "http://localhost:3000"},
		},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			Algorithms: []string{"HS256"},
		},
		Properties: config.PropertiesConfig{
			Provider: "airtable",
		},
		Airtable: config.AirtableConfig{
			APIKey: "key-test",
			BaseID: "app-test",
			Table:  "Properties",
			View:   "Grid view",
		},
	}
}

func TestNewDependencies(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("airtable provider wires without a database", func(t *testing.T) {
		deps, err := NewDependencies(ctx, airtableConfig(), logger)
		require.NoError(t, err)

		assert.Nil(t, deps.DB)
		assert.Equal(t, "airtable", deps.Properties.Active())
		assert.NotNil(t, deps.Validator)
		assert.NotNil(t, deps.AuthMiddleware)

		require.NoError(t, deps.Close(ctx))
	})

	t.Run("origin matcher is compiled from configuration", func(t *testing.T) {
		deps, err := NewDependencies(ctx, airtableConfig(), logger)
		require.NoError(t, err)
		defer deps.Close(ctx)

		assert.True(t, deps.Origins.Allows("http://localhost:3000"))
		assert.False(t, deps.Origins.Allows("https://evil.example"))
	})

	t.Run("unknown provider still constructs the router", func(t *testing.T) {
		cfg := airtableConfig()
		cfg.Properties.Provider = "dynamo"

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)
		defer deps.Close(ctx)

		assert.Empty(t, deps.Properties.Active())
	})
}
