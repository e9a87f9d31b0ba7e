package coach

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/internal/llm"
)

// inflight tracks the single running turn of each conversation.
type inflight struct {
	mu    sync.Mutex
	turns map[uuid.UUID]*slot
}

type slot struct {
	cancel    context.CancelCauseFunc
	startedAt time.Time

	// next is the start of the turn that superseded this one. Guarded by mu.
	next time.Time
}

func newInflight() *inflight {
	return &inflight{turns: make(map[uuid.UUID]*slot)}
}

// begin registers a turn for conversationID, cancelling the previous one
// with llm.ErrTurnSuperseded. The start time is taken under the lock, so
// turns of one conversation start in registration order.
func (r *inflight) begin(conversationID uuid.UUID, cancel context.CancelCauseFunc, now func() time.Time) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &slot{cancel: cancel, startedAt: now()}
	if prev, ok := r.turns[conversationID]; ok {
		prev.next = s.startedAt
		prev.cancel(llm.ErrTurnSuperseded)
	}
	r.turns[conversationID] = s
	return s
}

// replyTime returns the timestamp for the reply of s. A reply finishing
// after its successor started is placed just before the successor.
func (r *inflight) replyTime(s *slot, now func() time.Time) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := now()
	if !s.next.IsZero() && !at.Before(s.next) {
		at = s.next.Add(-time.Microsecond)
	}
	return at
}

// end removes s if it is still the registered turn.
func (r *inflight) end(conversationID uuid.UUID, s *slot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.turns[conversationID] == s {
		delete(r.turns, conversationID)
	}
}

// cancel stops the running turn of conversationID, if any.
func (r *inflight) cancel(conversationID uuid.UUID, cause error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.turns[conversationID]
	if ok {
		s.cancel(cause)
		delete(r.turns, conversationID)
	}
	return ok
}

func (r *inflight) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.turns)
}
