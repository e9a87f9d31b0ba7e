package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/luminary-backend/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/luminary-backend/internal/adapter/provider/openai"
	"github.com/heartmarshall/luminary-backend/internal/adapter/provider/stub"
	"github.com/heartmarshall/luminary-backend/internal/config"
	"github.com/heartmarshall/luminary-backend/internal/llm"
)

const stubChunkDelay = 40 * time.Millisecond

// newStreamer selects the model upstream. RequestTimeout bounds a whole
// turn, streamed body included.
func newStreamer(logger *slog.Logger, cfg config.LLMConfig) (llm.Streamer, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(logger, openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		}), nil
	case config.ProviderAnthropic:
		return anthropic.New(logger, anthropic.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		}), nil
	case config.ProviderStub:
		logger.Warn("using stub llm provider; replies are canned")
		return stub.New(stubChunkDelay), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
