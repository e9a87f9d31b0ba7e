// Package anthropic streams replies from the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/heartmarshall/luminary-backend/internal/llm"
)

// Config holds connection settings for the Messages API.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements llm.Streamer on top of the Anthropic SDK.
type Provider struct {
	client anthropic.Client
	log    *slog.Logger
}

// New creates a Provider with automatic retries disabled.
func New(log *slog.Logger, cfg Config) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Provider{
		client: anthropic.NewClient(opts...),
		log:    log.With("provider", "anthropic"),
	}
}

// Stream opens a streaming message. The message_stop event ends the stream.
func (p *Provider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    buildMessages(req.Messages),
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	raw := p.client.Messages.NewStreaming(ctx, params)
	if err := raw.Err(); err != nil {
		_ = raw.Close()
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		p.log.WarnContext(ctx, "open stream failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", llm.ErrUpstreamUnavailable, err)
	}

	return &stream{ctx: ctx, raw: raw}, nil
}

func buildMessages(history []llm.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(history))
	for _, m := range history {
		if m.Content == "" {
			continue
		}
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == llm.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return out
}

type stream struct {
	ctx   context.Context
	raw   *ssestream.Stream[anthropic.MessageStreamEventUnion]
	delta string
	usage llm.Usage
	done  bool
	err   error

	closeOnce sync.Once
	closeErr  error
}

func (s *stream) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	for s.raw.Next() {
		event := s.raw.Current()

		switch event.Type {
		case "message_start":
			s.usage.PromptTokens = int(event.AsMessageStart().Message.Usage.InputTokens)

		case "content_block_delta":
			if d, ok := event.AsContentBlockDelta().Delta.AsAny().(anthropic.TextDelta); ok && d.Text != "" {
				s.delta = d.Text
				return true
			}

		case "message_delta":
			s.usage.CompletionTokens = int(event.AsMessageDelta().Usage.OutputTokens)

		case "message_stop":
			s.done = true
			return false

		case "error":
			s.err = fmt.Errorf("%w: %s", llm.ErrUpstreamUnavailable, event.RawJSON())
			return false
		}
	}

	switch {
	case s.ctx.Err() != nil:
		s.err = context.Cause(s.ctx)
	case s.raw.Err() != nil:
		s.err = fmt.Errorf("%w: %v", llm.ErrUpstreamUnavailable, s.raw.Err())
	default:
		s.err = llm.ErrStreamIncomplete
	}
	return false
}

func (s *stream) Delta() string    { return s.delta }
func (s *stream) Err() error       { return s.err }
func (s *stream) Usage() llm.Usage { return s.usage }

func (s *stream) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.raw.Close() })
	return s.closeErr
}
