package coachclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Chat response trailers as set by the server.
const (
	trailerStatus    = "X-Coach-Status"
	trailerMessageID = "X-Coach-Message-Id"
	trailerSaved     = "X-Coach-Saved"

	statusComplete  = "complete"
	statusCancelled = "cancelled"
)

var (
	// ErrCancelled is returned when a chat turn was cancelled, by the caller
	// or by a newer turn of the same conversation. It is not a failure.
	ErrCancelled = errors.New("coachclient: turn cancelled")

	// ErrStreamFailed is returned when the reply stream broke off after it
	// had started.
	ErrStreamFailed = errors.New("coachclient: reply stream failed")
)

// ChatResult is a completed reply.
type ChatResult struct {
	Text      string
	MessageID uuid.UUID
	// Saved is false when the server delivered the reply but could not
	// store it.
	Saved bool
}

// IsCancelled reports whether err ended a turn by cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// Chat sends message to the conversation and calls onDelta with each reply
// fragment as it arrives. Fragments are always whole UTF-8 sequences.
func (c *Client) Chat(ctx context.Context, conversationID uuid.UUID, message string, onDelta func(delta string)) (*ChatResult, error) {
	payload, err := json.Marshal(map[string]string{
		"message":        message,
		"conversationId": conversationID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("coachclient: encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/coach/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("coachclient: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var text strings.Builder
	var pending []byte
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			var complete []byte
			complete, pending = splitUTF8(append(pending, buf[:n]...))
			if len(complete) > 0 {
				delta := string(complete)
				text.WriteString(delta)
				if onDelta != nil {
					onDelta(delta)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("%w: %v", ErrStreamFailed, readErr)
		}
	}

	switch resp.Trailer.Get(trailerStatus) {
	case statusComplete:
	case statusCancelled:
		return nil, ErrCancelled
	default:
		return nil, ErrStreamFailed
	}

	result := &ChatResult{
		Text:  text.String(),
		Saved: resp.Trailer.Get(trailerSaved) == "true",
	}
	if id, err := uuid.Parse(resp.Trailer.Get(trailerMessageID)); err == nil {
		result.MessageID = id
	}
	return result, nil
}

// splitUTF8 returns the longest prefix of b that does not end inside a
// multi-byte sequence, and the remaining bytes.
func splitUTF8(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return b, nil
		}
		return b[:i], append([]byte(nil), b[i:]...)
	}
	return b, nil
}
