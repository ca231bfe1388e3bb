package config

import (
	"context"
	"encoding/json"
	"time"
)

// Config holds the complete ctxkeeper configuration.
//
// Values are layered in this order, later sources winning:
// built-in defaults, YAML file, CTXKEEPER_* environment variables, CLI flags.
type Config struct {
	Context ContextConfig `koanf:"context" json:"context" validate:"required"`
	Tokens  TokensConfig  `koanf:"tokens"  json:"tokens"`
	Redis   RedisConfig   `koanf:"redis"   json:"redis"`
	Runtime RuntimeConfig `koanf:"runtime" json:"runtime" validate:"required"`
}

// ContextConfig bounds the retained message history.
type ContextConfig struct {
	MaxMessages    int `koanf:"max_messages"      json:"max_messages"      validate:"min=1" env:"CTXKEEPER_CONTEXT_MAX_MESSAGES"`
	MinTurnsToKeep int `koanf:"min_turns_to_keep" json:"min_turns_to_keep" validate:"min=0" env:"CTXKEEPER_CONTEXT_MIN_TURNS_TO_KEEP"`
	PreserveRecent int `koanf:"preserve_recent"   json:"preserve_recent"   validate:"min=0" env:"CTXKEEPER_CONTEXT_PRESERVE_RECENT"`
}

// TokensConfig controls the optional token diagnostics.
type TokensConfig struct {
	Enabled  bool   `koanf:"enabled"  json:"enabled"                                        env:"CTXKEEPER_TOKENS_ENABLED"`
	Encoding string `koanf:"encoding" json:"encoding" validate:"required,tiktoken_encoding" env:"CTXKEEPER_TOKENS_ENCODING"`
}

// RedisConfig locates the tool-activation store. An empty Addr selects the
// in-memory store.
type RedisConfig struct {
	Addr     string          `koanf:"addr"     json:"addr"                         env:"CTXKEEPER_REDIS_ADDR"`
	Password SensitiveString `koanf:"password" json:"password"                     env:"CTXKEEPER_REDIS_PASSWORD" sensitive:"true"`
	DB       int             `koanf:"db"       json:"db"       validate:"min=0"    env:"CTXKEEPER_REDIS_DB"`
	Prefix   string          `koanf:"prefix"   json:"prefix"   validate:"required" env:"CTXKEEPER_REDIS_PREFIX"`
	TTL      time.Duration   `koanf:"ttl"      json:"ttl"      validate:"min=0"    env:"CTXKEEPER_REDIS_TTL"`
}

type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  json:"log_level"  validate:"oneof=debug info warn error disabled" env:"CTXKEEPER_RUNTIME_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"   json:"log_json"                                                   env:"CTXKEEPER_RUNTIME_LOG_JSON"`
	LogSource bool   `koanf:"log_source" json:"log_source"                                                 env:"CTXKEEPER_RUNTIME_LOG_SOURCE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Context: ContextConfig{
			MaxMessages:    30,
			MinTurnsToKeep: 2,
			PreserveRecent: 2,
		},
		Tokens: TokensConfig{
			Enabled:  false,
			Encoding: "cl100k_base",
		},
		Redis: RedisConfig{
			Prefix: "ctxkeeper",
			TTL:    24 * time.Hour,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}

// Service loads and validates configuration.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks the configuration for errors.
	Validate(config *Config) error
	// GetSource returns the source that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

const redacted = "[REDACTED]"

// SensitiveString holds a secret that must never reach logs or output.
type SensitiveString string

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the secret itself.
func (s SensitiveString) Value() string {
	return string(s)
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s SensitiveString) MarshalYAML() (any, error) {
	return s.String(), nil
}
