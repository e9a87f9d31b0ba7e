package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.JWTAudience == "" {
		return fmt.Errorf("auth.jwt_audience must not be empty")
	}

	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	if err := c.Coach.validate(); err != nil {
		return fmt.Errorf("coach: %w", err)
	}

	if c.RateLimit.ChatPerMinute <= 0 {
		return fmt.Errorf("rate_limit.chat_per_minute must be > 0 (got %d)", c.RateLimit.ChatPerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0")
	}

	return nil
}

func (l *LLMConfig) validate() error {
	switch l.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if l.APIKey == "" {
			return fmt.Errorf("api_key is required for provider %q", l.Provider)
		}
	case ProviderStub:
	default:
		return fmt.Errorf("unknown provider %q", l.Provider)
	}
	if l.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be > 0 (got %d)", l.MaxTokens)
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2] (got %v)", l.Temperature)
	}
	return nil
}

func (c *CoachConfig) validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be > 0 (got %d)", c.HistoryLimit)
	}
	if c.MemoryLimit <= 0 {
		return fmt.Errorf("memory_limit must be > 0 (got %d)", c.MemoryLimit)
	}
	if c.StreakLookback <= 0 {
		return fmt.Errorf("streak_lookback must be > 0 (got %d)", c.StreakLookback)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.MemoryRetention < 24*time.Hour {
		return fmt.Errorf("memory_retention must be at least 24h (got %v)", c.MemoryRetention)
	}
	return nil
}
