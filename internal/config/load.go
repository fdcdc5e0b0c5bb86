package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables, applies defaults,
// and validates the result. Environment variables use the TECHVOCAB_
// prefix with underscores separating the group and field, for example
// TECHVOCAB_DATABASE_URL or TECHVOCAB_LLM_GEMINI_API_KEY.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.requests_per_minute", 15)
	v.SetDefault("llm.min_request_interval_ms", 0)
	v.SetDefault("task.state_ttl_seconds", 3600)

	v.SetEnvPrefix("TECHVOCAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through
	// Unmarshal, so each key is bound explicitly.
	keys := []string{
		"server.port",
		"server.log_level",
		"database.url",
		"redis.addr",
		"redis.password",
		"redis.db",
		"auth.jwt_secret",
		"llm.gemini_api_key",
		"llm.model_name",
		"llm.temperature",
		"llm.top_p",
		"llm.requests_per_minute",
		"llm.min_request_interval_ms",
		"task.state_ttl_seconds",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
