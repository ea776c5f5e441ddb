// Package app wires configuration into constructed components. It is
// the only place that decides which provider variant backs /properties.
package app

import (
	"context"
	"fmt"

	"github.com/aircasa/aircasa-api/config"
	"github.com/aircasa/aircasa-api/middleware"
	"github.com/aircasa/aircasa-api/origin"
	"github.com/aircasa/aircasa-api/repositories/postgres"
	"github.com/aircasa/aircasa-api/services/properties"
	"github.com/aircasa/aircasa-api/services/properties/airtable"
	"github.com/aircasa/aircasa-api/services/properties/relational"
	"github.com/aircasa/aircasa-api/supabase"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Compiled once at startup; read-only afterwards
	Origins *origin.Matcher

	// Auth
	Validator      *supabase.Validator
	AuthMiddleware *middleware.AuthMiddleware

	// Properties
	Properties *properties.Router

	// DB is nil unless the relational provider is active
	DB *postgres.DB
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.Origins = origin.Compile(cfg.CORS.AllowedOrigins)
	logger.Info("cors origins compiled",
		zap.Strings("patterns", deps.Origins.Patterns()))

	deps.initAuth(cfg)

	if err := deps.initProperties(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize property providers: %w", err)
	}

	logger.Info("all dependencies initialized",
		zap.String("provider", deps.Properties.Active()))
	return deps, nil
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth.JWTSecret == "" {
		// The validator reports the missing secret per request; protected
		// routes answer 500 instead of the process refusing to start.
		d.Logger.Warn("SUPABASE_JWT_SECRET is not set, protected routes will fail")
	}
	d.Validator = supabase.NewValidator(supabase.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		Algorithms: cfg.Auth.Algorithms,
	}, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Validator, d.Logger)
}

// initProperties constructs both provider variants and the router that
// selects between them. The relational store is only dialed when it is
// the active provider.
func (d *Dependencies) initProperties(ctx context.Context, cfg *config.Config) error {
	airtableProvider := airtable.NewProvider(cfg.Airtable, airtable.NewRESTClient(cfg.Airtable), d.Logger)

	var relationalProvider properties.Provider
	switch cfg.Properties.Provider {
	case "postgres", "supabase":
		db, err := postgres.NewDB(cfg.Database, d.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("postgres ping failed: %w", err)
		}
		d.DB = db
		d.Logger.Info("database connection established",
			zap.String("connection", cfg.Database.LogString()))

		repo := postgres.NewPropertyRepository(db, d.Logger)
		relationalProvider = relational.NewProvider(cfg.Properties, repo, d.Logger)
	default:
		// Keeps the router's selector error path intact without a live DB
		relationalProvider = relational.NewProvider(cfg.Properties, nil, d.Logger)
	}

	d.Properties = properties.NewRouter(cfg.Properties, airtableProvider, relationalProvider, d.Logger)
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
