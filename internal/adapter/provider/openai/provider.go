// Package openai streams chat completions from an OpenAI-compatible API.
//
// Frames are decoded with the SDK's SSE decoder but parsed leniently: a frame
// whose payload is not valid JSON is skipped instead of aborting the stream,
// and the literal [DONE] payload ends it.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/tidwall/gjson"

	"github.com/heartmarshall/luminary-backend/internal/llm"
)

const doneMarker = "[DONE]"

// Config holds connection settings for the upstream API.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements llm.Streamer against the chat completions endpoint.
type Provider struct {
	client openai.Client
	log    *slog.Logger
}

// New creates a Provider. Automatic retries are disabled: a failed turn is
// reported to the user, who may resend.
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
		client: openai.NewClient(opts...),
		log:    log.With("provider", "openai"),
	}
}

// Stream opens a streaming completion. The returned stream is bound to ctx:
// cancelling ctx aborts the connection and makes Next return false.
func (p *Provider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    buildMessages(req),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}

	var resp *http.Response
	err := p.client.Post(ctx, "chat/completions", params, &resp, option.WithJSONSet("stream", true))
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		p.log.WarnContext(ctx, "open stream failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", llm.ErrUpstreamUnavailable, err)
	}

	dec := ssestream.NewDecoder(resp)
	if dec == nil {
		return nil, fmt.Errorf("%w: empty response body", llm.ErrUpstreamUnavailable)
	}

	return &stream{ctx: ctx, dec: dec}, nil
}

func buildMessages(req llm.Request) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return msgs
}

// ---------------------------------------------------------------------------
// Stream
// ---------------------------------------------------------------------------

type stream struct {
	ctx   context.Context
	dec   ssestream.Decoder
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

	for s.dec.Next() {
		data := bytes.TrimSpace(s.dec.Event().Data)
		if len(data) == 0 {
			continue
		}
		if string(data) == doneMarker {
			s.done = true
			return false
		}
		if !gjson.ValidBytes(data) {
			continue
		}

		frame := gjson.ParseBytes(data)
		if e := frame.Get("error"); e.Exists() {
			s.err = fmt.Errorf("%w: %s", llm.ErrUpstreamUnavailable, e.Get("message").String())
			return false
		}
		if u := frame.Get("usage"); u.IsObject() {
			s.usage = llm.Usage{
				PromptTokens:     int(u.Get("prompt_tokens").Int()),
				CompletionTokens: int(u.Get("completion_tokens").Int()),
			}
		}

		content := frame.Get("choices.0.delta.content").String()
		if content == "" {
			continue
		}
		s.delta = content
		return true
	}

	s.err = s.failure()
	return false
}

// failure explains why the body ended without the end-of-stream marker.
func (s *stream) failure() error {
	if s.ctx.Err() != nil {
		return context.Cause(s.ctx)
	}
	if err := s.dec.Err(); err != nil {
		return fmt.Errorf("%w: read stream: %v", llm.ErrUpstreamUnavailable, err)
	}
	return llm.ErrStreamIncomplete
}

func (s *stream) Delta() string    { return s.delta }
func (s *stream) Err() error       { return s.err }
func (s *stream) Usage() llm.Usage { return s.usage }

func (s *stream) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.dec.Close() })
	return s.closeErr
}
