package properties

import (
	"context"

	"github.com/aircasa/aircasa-api/config"
	"github.com/aircasa/aircasa-api/supabase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router resolves the active Provider variant once at startup and applies
// the diagnostic-override policy before forwarding calls. It holds no
// per-request state.
type Router struct {
	provider       Provider
	selector       string
	allowOverrides bool
	logger         *zap.Logger
}

// NewRouter selects the provider named by the configuration. An
// unrecognized selector is logged here and reported as
// ErrProviderMisconfigured on every subsequent List call.
func NewRouter(cfg config.PropertiesConfig, airtable, relational Provider, logger *zap.Logger) *Router {
	r := &Router{
		selector:       cfg.Provider,
		allowOverrides: cfg.AllowDiagOverrides,
		logger:         logger,
	}

	switch cfg.Provider {
	case "airtable":
		r.provider = airtable
	case "postgres", "supabase":
		r.provider = relational
	default:
		logger.Error("unrecognized properties provider",
			zap.String("provider", cfg.Provider))
	}

	if r.provider != nil {
		logger.Info("properties provider selected",
			zap.String("provider", r.provider.Name()),
			zap.Bool("diag_overrides_enabled", cfg.AllowDiagOverrides))
	}

	return r
}

// Active returns the name of the selected provider, or "" when the
// selector was unrecognized.
func (r *Router) Active() string {
	if r.provider == nil {
		return ""
	}
	return r.provider.Name()
}

// List forwards to the active provider after enforcing the override
// policy.
func (r *Router) List(ctx context.Context, identity *supabase.Identity, opts ListOptions) (*Result, error) {
	if r.provider == nil {
		return nil, ErrProviderMisconfigured
	}
	opts = r.applyOverridePolicy(identity, opts)
	return r.provider.List(ctx, identity, opts)
}

// applyOverridePolicy strips the owner-filter escape hatches unless they
// are explicitly enabled in configuration. Honored overrides are
// audit-logged with a generated event ID so every cross-owner read is
// traceable to a caller.
func (r *Router) applyOverridePolicy(identity *supabase.Identity, opts ListOptions) ListOptions {
	if !opts.BypassOwnerFilter && opts.OwnerOverride == "" {
		return opts
	}

	subject := ""
	if identity != nil {
		subject = identity.Subject
	}

	if !r.allowOverrides {
		r.logger.Warn("diagnostic overrides requested but disabled; ignoring",
			zap.String("sub", subject),
			zap.Bool("bypass_owner_filter", opts.BypassOwnerFilter),
			zap.Bool("owner_override_set", opts.OwnerOverride != ""))
		opts.BypassOwnerFilter = false
		opts.OwnerOverride = ""
		return opts
	}

	r.logger.Warn("owner-filter override in use",
		zap.String("event_id", uuid.NewString()),
		zap.String("sub", subject),
		zap.Bool("bypass_owner_filter", opts.BypassOwnerFilter),
		zap.Bool("owner_override_set", opts.OwnerOverride != ""))
	return opts
}
