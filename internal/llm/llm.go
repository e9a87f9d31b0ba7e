// Package llm defines the streaming chat-completion contract shared by the
// coach service and the upstream provider adapters.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstreamUnavailable means the model API could not be reached or
	// answered with a non-success status.
	ErrUpstreamUnavailable = errors.New("upstream model unavailable")

	// ErrStreamIncomplete means the response body ended before the
	// end-of-stream marker arrived. It is a kind of ErrUpstreamUnavailable.
	ErrStreamIncomplete = fmt.Errorf("%w: stream ended before completion marker", ErrUpstreamUnavailable)

	// ErrTurnSuperseded is the cancellation cause used when a newer turn of
	// the same conversation replaces an in-flight one.
	ErrTurnSuperseded = errors.New("turn superseded by a newer turn")
)

// Role of a chat message as understood by the upstream API.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prior turn sent as history.
type Message struct {
	Role    Role
	Content string
}

// Request is a single streaming completion request.
type Request struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage reports token accounting when the upstream provides it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Stream is an open completion stream. Next advances to the next text
// fragment. It returns false at the end-of-stream marker, in which case Err is
// nil, or on failure or cancellation, in which case Err is non-nil.
// Close releases the underlying connection and is safe to call more than once.
type Stream interface {
	Next() bool
	Delta() string
	Err() error
	Usage() Usage
	Close() error
}

// Streamer opens completion streams against one upstream.
type Streamer interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// IsCancellation reports whether err is a cancellation rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrTurnSuperseded)
}

// Collect drains s and returns the full text. It closes s.
func Collect(s Stream) (string, error) {
	defer s.Close()

	var b strings.Builder
	for s.Next() {
		b.WriteString(s.Delta())
	}
	return b.String(), s.Err()
}
