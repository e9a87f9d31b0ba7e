package coach

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/internal/llm"
	"github.com/heartmarshall/luminary-backend/internal/realtime"
	"github.com/heartmarshall/luminary-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Fake model stream
// ---------------------------------------------------------------------------

// chanStream yields deltas from ch. A closed channel ends the stream with
// endErr (nil means the end-of-stream marker was seen).
type chanStream struct {
	ctx    context.Context
	ch     <-chan string
	endErr error
	usage  llm.Usage
	delta  string
	err    error
	ended  bool
}

func (s *chanStream) Next() bool {
	if s.ended || s.err != nil {
		return false
	}
	select {
	case <-s.ctx.Done():
		s.err = context.Cause(s.ctx)
		return false
	case d, ok := <-s.ch:
		if !ok {
			s.ended = true
			s.err = s.endErr
			return false
		}
		s.delta = d
		return true
	}
}

func (s *chanStream) Delta() string    { return s.delta }
func (s *chanStream) Err() error       { return s.err }
func (s *chanStream) Usage() llm.Usage { return s.usage }
func (s *chanStream) Close() error     { return nil }

// fakeStreamer records requests and serves streams built by open.
type fakeStreamer struct {
	mu       sync.Mutex
	requests []llm.Request
	open     func(ctx context.Context) (llm.Stream, error)
}

func (f *fakeStreamer) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.open(ctx)
}

func (f *fakeStreamer) lastRequest(t *testing.T) llm.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no model request was made")
	}
	return f.requests[len(f.requests)-1]
}

// replyWith serves a completed stream of the given deltas.
func replyWith(deltas ...string) func(ctx context.Context) (llm.Stream, error) {
	return func(ctx context.Context) (llm.Stream, error) {
		ch := make(chan string, len(deltas))
		for _, d := range deltas {
			ch <- d
		}
		close(ch)
		return &chanStream{ctx: ctx, ch: ch, usage: llm.Usage{CompletionTokens: len(deltas)}}, nil
	}
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type harness struct {
	svc           *Service
	userID        uuid.UUID
	conv          *domain.Conversation
	conversations *conversationRepoMock
	messages      *messageRepoMock
	memories      *memoryRepoMock
	wellness      *wellnessRepoMock
	tx            *txManagerMock
	streamer      *fakeStreamer
	hub           *realtime.Hub

	mu     sync.Mutex
	convs  map[uuid.UUID]*domain.Conversation
	stored []*domain.Message
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		userID:   uuid.New(),
		streamer: &fakeStreamer{open: replyWith("Hel", "lo")},
		hub:      realtime.NewHub(32),
	}
	title := domain.DefaultConversationTitle
	h.conv = &domain.Conversation{
		ID:        uuid.New(),
		UserID:    h.userID,
		Title:     &title,
		IsActive:  true,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	h.convs = map[uuid.UUID]*domain.Conversation{h.conv.ID: h.conv}

	h.conversations = &conversationRepoMock{
		GetByIDFunc: func(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			c, ok := h.convs[id]
			if !ok || c.UserID != userID {
				return nil, fmt.Errorf("coach_conversation %s: %w", id, domain.ErrNotFound)
			}
			return c, nil
		},
		CreateFunc: func(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error) {
			if c.ID == uuid.Nil || c.CreatedAt.IsZero() {
				t.Errorf("conversation reached the repo without id or creation time: %+v", c)
				return nil, fmt.Errorf("coach_conversation %s: %w", c.ID, domain.ErrAlreadyExists)
			}
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.convs[c.ID]; ok {
				return nil, fmt.Errorf("coach_conversation %s: %w", c.ID, domain.ErrAlreadyExists)
			}
			created := *c
			h.convs[c.ID] = &created
			return &created, nil
		},
		TouchFunc: func(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Conversation, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			stored, ok := h.convs[id]
			if !ok {
				return nil, fmt.Errorf("coach_conversation %s: %w", id, domain.ErrNotFound)
			}
			c := *stored
			for _, m := range h.stored {
				if m.ConversationID == id {
					c.MessageCount++
				}
			}
			c.LastMessageAt = &at
			return &c, nil
		},
	}
	// Messages are stored exactly as passed and ids act as a primary key.
	h.messages = &messageRepoMock{
		CreateFunc: func(ctx context.Context, m *domain.Message) (*domain.Message, error) {
			if m.ID == uuid.Nil {
				t.Errorf("%s message reached the repo without an id", m.Role)
				return nil, fmt.Errorf("coach_message %s: %w", m.ID, domain.ErrAlreadyExists)
			}
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, prev := range h.stored {
				if prev.ID == m.ID {
					return nil, fmt.Errorf("coach_message %s: %w", m.ID, domain.ErrAlreadyExists)
				}
			}
			created := *m
			h.stored = append(h.stored, &created)
			return &created, nil
		},
		ListRecentFunc: func(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			var out []*domain.Message
			for _, m := range h.stored {
				if m.ConversationID == conversationID {
					out = append(out, m)
				}
			}
			if len(out) > limit {
				out = out[len(out)-limit:]
			}
			return out, nil
		},
	}
	h.memories = &memoryRepoMock{
		ListActiveFunc: func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.MemoryEntry, error) {
			return nil, nil
		},
		UpsertFunc: func(ctx context.Context, userID uuid.UUID, c domain.MemoryCandidate, sourceMessageID *uuid.UUID) (*domain.MemoryEntry, error) {
			return &domain.MemoryEntry{ID: uuid.New(), UserID: userID, Category: c.Category, Key: c.Key, Value: c.Value}, nil
		},
	}
	h.wellness = emptyWellness()
	h.tx = &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}

	h.svc = NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		h.conversations, h.messages, h.memories, h.wellness, h.tx,
		h.streamer, nil, h.hub,
		Config{
			Model:              "gpt-test",
			MaxTokens:          800,
			Temperature:        0.7,
			HistoryLimit:       20,
			MemoryLimit:        10,
			StreakLookbackDays: 365,
			ExtractionTimeout:  time.Second,
		},
	)
	return h
}

// emptyWellness models a user with no related rows.
func emptyWellness() *wellnessRepoMock {
	return &wellnessRepoMock{
		GetProfileFunc: func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
			return nil, domain.ErrNotFound
		},
		GetCheckinFunc: func(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyCheckin, error) {
			return nil, domain.ErrNotFound
		},
		GetDayPlanFunc: func(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DayPlan, error) {
			return nil, domain.ErrNotFound
		},
		ListCompletionDatesFunc: func(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
			return nil, nil
		},
		SumSavingsFunc: func(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
		SumWellnessSpendingFunc: func(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
	}
}

func (h *harness) ctx() context.Context {
	return ctxutil.WithUserID(context.Background(), h.userID)
}

func (h *harness) storedMessages() []*domain.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*domain.Message(nil), h.stored...)
}

// conversationCount reports how many conversations the repo holds.
func (h *harness) conversationCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.convs)
}

func (h *harness) countRole(role domain.Role) int {
	n := 0
	for _, m := range h.storedMessages() {
		if m.Role == role {
			n++
		}
	}
	return n
}

// collect returns a write func appending to the returned buffer.
func collect() (func(string) error, *[]string) {
	var parts []string
	return func(d string) error {
		parts = append(parts, d)
		return nil
	}, &parts
}
