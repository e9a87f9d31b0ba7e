// Package coachclient is a Go client for the coach HTTP API and a per
// conversation chat controller built on it.
package coachclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coach api: %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Conversation is a coach conversation as returned by the API.
type Conversation struct {
	ID            uuid.UUID  `json:"id"`
	Title         *string    `json:"title,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
	KeyInsights   []string   `json:"keyInsights"`
	IsActive      bool       `json:"isActive"`
	IsPinned      bool       `json:"isPinned"`
	MessageCount  int        `json:"messageCount"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Message is one persisted conversation message.
type Message struct {
	ID               uuid.UUID `json:"id"`
	ConversationID   uuid.UUID `json:"conversationId"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	Model            *string   `json:"model,omitempty"`
	TokensUsed       *int      `json:"tokensUsed,omitempty"`
	ProcessingTimeMs *int      `json:"processingTimeMs,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Client calls the coach API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client. httpClient may be nil; it must not set a Timeout
// shorter than the longest expected reply since chat responses stream.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// CreateConversation starts a conversation. An empty title selects the
// server default.
func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	var body any = struct{}{}
	if title != "" {
		body = map[string]string{"title": title}
	}
	var conv Conversation
	if err := c.doJSON(ctx, http.MethodPost, "/coach/conversations", body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns a page of conversations, most recent first.
// Zero limit selects the server default.
func (c *Client) ListConversations(ctx context.Context, limit, offset int) ([]Conversation, error) {
	var resp struct {
		Conversations []Conversation `json:"conversations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/coach/conversations"+pageQuery(limit, offset), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// ListMessages returns a page of a conversation's messages, oldest first.
func (c *Client) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	path := "/coach/conversations/" + conversationID.String() + "/messages" + pageQuery(limit, offset)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/coach/conversations/"+conversationID.String(), nil, nil)
}

// CancelTurn asks the server to stop the conversation's running turn. It
// reports false when no turn was running.
func (c *Client) CancelTurn(ctx context.Context, conversationID uuid.UUID) (bool, error) {
	err := c.doJSON(ctx, http.MethodDelete, "/coach/conversations/"+conversationID.String()+"/turn", nil, nil)
	if IsStatus(err, http.StatusNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func pageQuery(limit, offset int) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("coachclient: create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("coachclient: encode request: %w", err)
		}
	}
	build := func() (*http.Request, error) {
		if payload == nil {
			return c.newRequest(ctx, method, path, nil)
		}
		return c.newRequest(ctx, method, path, bytes.NewReader(payload))
	}

	resp, err := c.doWithRetry(ctx, method, build)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("coachclient: decode response: %w", err)
	}
	return nil
}

// doWithRetry retries a GET once on 5xx or network errors. Other methods
// are sent once.
func (c *Client) doWithRetry(ctx context.Context, method string, build func() (*http.Request, error)) (*http.Response, error) {
	req, err := build()
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)

	shouldRetry := method == http.MethodGet && (err != nil || resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	if resp != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if req, err = build(); err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

var retryDelay = 300 * time.Millisecond

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
