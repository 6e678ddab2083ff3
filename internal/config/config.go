// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), applies defaults and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Provide sane defaults for optional blocks (server, observability).
//   - Validate required values so the app fails fast on bad/missing config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads env vars.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the prefix BESTSELLERS_. After the prefix is
	removed the first underscore separates the section from the key:

		BESTSELLERS_SERVER_PORT              -> server.port
		BESTSELLERS_NYT_BEST_SELLERS_ENDPOINT -> nyt.best_sellers_endpoint

	The logging and newrelic sections live under observability:

		BESTSELLERS_LOGGING_LEVEL            -> observability.logging.level
		BESTSELLERS_NEWRELIC_LICENSE_KEY     -> observability.newrelic.license_key
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "BESTSELLERS_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator
// after defaults have been applied.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	NYT           NYTConfig            `koanf:"nyt" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// APIVersion is the path segment after /api, e.g. /api/1/nyt/best-sellers.
	APIVersion string `koanf:"api_version" validate:"required"`

	// LegacyStatusOK writes HTTP 200 for every envelope and leaves the
	// semantic code to the envelope's status field only. Older consumers
	// of the API rely on it.
	LegacyStatusOK bool `koanf:"legacy_status_ok"`

	// RateLimit is the allowed requests per second per client IP on the
	// API routes. Zero disables inbound rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// NYTConfig holds the upstream Best Sellers API settings.
type NYTConfig struct {
	BestSellersEndpoint string `koanf:"best_sellers_endpoint" validate:"required,url"`
	APIKey              string `koanf:"api_key" validate:"required"`

	// InsecureSkipVerify disables certificate verification on the upstream
	// call. Only the legacy deployment needs it.
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`

	// Timeout bounds the whole upstream call. Zero keeps the HTTP client
	// default, which is no timeout.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`
}

// Server defaults used when a value is not provided.
const (
	DefaultPort         = "8080"
	DefaultReadTimeout  = 30
	DefaultWriteTimeout = 30
	DefaultIdleTimeout  = 60
	DefaultAPIVersion   = "1"
)

// envKey converts a raw env var name into a koanf key path.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))

	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key
	}

	switch section {
	case "logging", "newrelic":
		return "observability." + section + "." + rest
	default:
		return section + "." + rest
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, applies defaults, validates it and returns the result.
//
// Unlike a fatal loader it returns every failure so the caller decides how to exit.
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	// "" unmarshals everything from the root.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Service name and environment are forced so logs and traces
	// always carry consistent labels.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.APIVersion == "" {
		c.Server.APIVersion = DefaultAPIVersion
	}

	// Observability is a pointer: nil means nothing was provided at all.
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
		return
	}

	defaults := DefaultObservabilityConfig()
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = defaults.Logging.Format
	}
}

// APIPrefix returns the route prefix the versioned API is mounted under.
func (s ServerConfig) APIPrefix() string {
	return "/api/" + strings.Trim(s.APIVersion, "/")
}
