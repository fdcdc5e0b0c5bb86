package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig contains connection settings for the task state store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// LLMConfig contains all LLM integration related settings, including the
// client-side rate limit applied to outbound provider calls.
type LLMConfig struct {
	GeminiAPIKey         string  `mapstructure:"gemini_api_key" validate:"required"`
	ModelName            string  `mapstructure:"model_name" validate:"required"`
	Temperature          float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP                 float32 `mapstructure:"top_p" validate:"gte=0,lte=1"`
	RequestsPerMinute    int     `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	MinRequestIntervalMs int     `mapstructure:"min_request_interval_ms" validate:"gte=0"`
}

// TaskConfig contains settings for handed-out task lifecycle.
type TaskConfig struct {
	// StateTTLSeconds is how long a generated task stays gradable.
	StateTTLSeconds int `mapstructure:"state_ttl_seconds" validate:"required,gt=0"`
}
