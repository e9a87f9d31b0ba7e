package coachclient

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// State is the chat controller's turn state.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	}
	return "unknown"
}

// Level grades a Notification.
type Level int

const (
	LevelWarning Level = iota
	LevelError
)

// Notification is a non-blocking message for the user.
type Notification struct {
	Level Level
	Text  string
	Err   error
}

// Hooks receive the controller's rendering callbacks. Nil hooks are skipped.
// Typing gets the whole reply accumulated so far. Every turn ends with
// exactly one of Finalized and Discarded.
type Hooks struct {
	Typing    func(text string)
	Finalized func(msg Message)
	Discarded func()
	Notify    func(n Notification)
}

type chatter interface {
	Chat(ctx context.Context, conversationID uuid.UUID, message string, onDelta func(delta string)) (*ChatResult, error)
}

// Controller drives the turns of one conversation. At most one turn is in
// flight; sending while one runs cancels it first.
type Controller struct {
	client         chatter
	conversationID uuid.UUID
	hooks          Hooks

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController creates a Controller for a conversation.
func NewController(client chatter, conversationID uuid.UUID, hooks Hooks) *Controller {
	return &Controller{client: client, conversationID: conversationID, hooks: hooks}
}

// State returns the current turn state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cancel stops the in-flight turn and waits until the controller is idle.
// It reports whether a turn was running.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if done == nil {
		return false
	}
	cancel()
	<-done
	return true
}

// Send runs one turn and blocks until it ends. It returns ErrCancelled when
// the turn was cancelled, which callers need not report. Failures are also
// raised through Hooks.Notify; the controller is idle again either way.
func (c *Controller) Send(ctx context.Context, text string) error {
	ctx, done, cancel := c.begin(ctx)
	defer c.finish(done, cancel)

	var buf strings.Builder
	result, err := c.client.Chat(ctx, c.conversationID, text, func(delta string) {
		c.setState(StateStreaming)
		buf.WriteString(delta)
		if c.hooks.Typing != nil {
			c.hooks.Typing(buf.String())
		}
	})

	switch {
	case err == nil:
		if !result.Saved {
			c.notify(Notification{Level: LevelWarning, Text: "The reply was not saved and will be missing from history."})
		}
		if c.hooks.Finalized != nil {
			c.hooks.Finalized(Message{
				ID:             result.MessageID,
				ConversationID: c.conversationID,
				Role:           "assistant",
				Content:        result.Text,
			})
		}
		return nil
	case IsCancelled(err) || ctx.Err() != nil:
		c.discard()
		return ErrCancelled
	default:
		c.discard()
		c.notify(Notification{Level: LevelError, Text: "Failed to get a response from the coach.", Err: err})
		return err
	}
}

// begin cancels any running turn, waits for it to end and registers a new one.
func (c *Controller) begin(parent context.Context) (context.Context, chan struct{}, context.CancelFunc) {
	c.mu.Lock()
	for c.done != nil {
		cancel, done := c.cancel, c.done
		c.mu.Unlock()
		cancel()
		<-done
		c.mu.Lock()
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.state = StateSending
	c.mu.Unlock()
	return ctx, done, cancel
}

func (c *Controller) finish(done chan struct{}, cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	c.state = StateIdle
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	close(done)
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) discard() {
	if c.hooks.Discarded != nil {
		c.hooks.Discarded()
	}
}

func (c *Controller) notify(n Notification) {
	if c.hooks.Notify != nil {
		c.hooks.Notify(n)
	}
}
