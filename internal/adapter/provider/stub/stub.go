package stub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/luminary-backend/internal/llm"
)

// Provider is a local llm.Streamer for development without an upstream key.
// It answers every request with a canned reply split into word-sized chunks.
type Provider struct {
	delay time.Duration
}

// New creates a stub provider that waits delay between chunks.
func New(delay time.Duration) *Provider { return &Provider{delay: delay} }

// Stream never fails to open unless ctx is already done.
func (p *Provider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}
	return &stream{ctx: ctx, delay: p.delay, chunks: split(reply(req))}, nil
}

func reply(req llm.Request) string {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == llm.RoleUser {
			last = req.Messages[i].Content
			break
		}
	}
	if last == "" {
		return "I'm running in local mode. Tell me how your day is going."
	}
	return fmt.Sprintf("I'm running in local mode, so this is a placeholder answer. You said: %q", last)
}

// split keeps the trailing space on each word so chunks concatenate back to s.
func split(s string) []string {
	words := strings.SplitAfter(s, " ")
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

type stream struct {
	ctx    context.Context
	delay  time.Duration
	chunks []string
	pos    int
	delta  string
	err    error
}

func (s *stream) Next() bool {
	if s.err != nil || s.pos >= len(s.chunks) {
		return false
	}
	if s.delay > 0 && s.pos > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-s.ctx.Done():
			t.Stop()
		case <-t.C:
		}
	}
	if s.ctx.Err() != nil {
		s.err = context.Cause(s.ctx)
		return false
	}
	s.delta = s.chunks[s.pos]
	s.pos++
	return true
}

func (s *stream) Delta() string    { return s.delta }
func (s *stream) Err() error       { return s.err }
func (s *stream) Usage() llm.Usage { return llm.Usage{CompletionTokens: len(s.chunks)} }
func (s *stream) Close() error     { return nil }
