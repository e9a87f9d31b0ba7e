package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	LLM       LLMConfig       `yaml:"llm"`
	Coach     CoachConfig     `yaml:"coach"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Client-Info,Apikey"`
	ExposedHeaders   string `yaml:"exposed_headers"   env:"CORS_EXPOSED_HEADERS"   env-default:"X-Request-Id,X-Coach-Conversation-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
// WriteTimeout bounds a whole response, streamed ones included; 0 disables it.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"luminary"`
}

// AuthConfig holds the settings needed to verify access tokens issued by
// the hosted auth provider.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"   env:"AUTH_JWT_SECRET"   env-required:"true"`
	JWTIssuer   string `yaml:"jwt_issuer"   env:"AUTH_JWT_ISSUER"`
	JWTAudience string `yaml:"jwt_audience" env:"AUTH_JWT_AUDIENCE" env-default:"authenticated"`
}

// Supported LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderStub      = "stub"
)

// LLMConfig selects and configures the chat-completion upstream.
type LLMConfig struct {
	Provider       string        `yaml:"provider"        env:"LLM_PROVIDER"        env-default:"openai"`
	BaseURL        string        `yaml:"base_url"        env:"LLM_BASE_URL"`
	APIKey         string        `yaml:"api_key"         env:"LLM_API_KEY"`
	Model          string        `yaml:"model"           env:"LLM_MODEL"           env-default:"gpt-4-turbo-preview"`
	MaxTokens      int           `yaml:"max_tokens"      env:"LLM_MAX_TOKENS"      env-default:"800"`
	Temperature    float64       `yaml:"temperature"     env:"LLM_TEMPERATURE"     env-default:"0.7"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"LLM_REQUEST_TIMEOUT" env-default:"2m"`
}

// CoachConfig holds coach conversation parameters. StreakLookback is the
// number of days of habit history read per turn and also the largest streak
// the coach reports.
type CoachConfig struct {
	HistoryLimit      int           `yaml:"history_limit"      env:"COACH_HISTORY_LIMIT"      env-default:"20"`
	MemoryLimit       int           `yaml:"memory_limit"       env:"COACH_MEMORY_LIMIT"       env-default:"10"`
	StreakLookback    int           `yaml:"streak_lookback"    env:"COACH_STREAK_LOOKBACK"    env-default:"365"`
	Timezone          string        `yaml:"timezone"           env:"COACH_TIMEZONE"           env-default:"UTC"`
	MemoryRetention   time.Duration `yaml:"memory_retention"   env:"COACH_MEMORY_RETENTION"   env-default:"4320h"`
	ExtractionTimeout time.Duration `yaml:"extraction_timeout" env:"COACH_EXTRACTION_TIMEOUT" env-default:"10s"`
}

// RateLimitConfig bounds how often a single user may start a coach turn.
type RateLimitConfig struct {
	ChatPerMinute   int           `yaml:"chat_per_minute"  env:"RATE_LIMIT_CHAT_PER_MINUTE" env-default:"20"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
