package stub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/heartmarshall/luminary-backend/internal/llm"
)

func TestStub_StreamsReplyInChunks(t *testing.T) {
	t.Parallel()

	s, err := New(0).Stream(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "feeling tired"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var chunks int
	var text string
	for s.Next() {
		chunks++
		text += s.Delta()
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if chunks < 2 {
		t.Fatalf("expected several chunks, got %d", chunks)
	}
	want := reply(llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: "feeling tired"}}})
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
}

func TestStub_NoUserMessage(t *testing.T) {
	t.Parallel()

	got := reply(llm.Request{})
	if got == "" {
		t.Fatal("expected a default reply")
	}
}

func TestStub_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancelCause(context.Background())
	s, err := New(time.Hour).Stream(ctx, llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hello there"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Next() {
		t.Fatal("expected first chunk without delay")
	}
	cancel(llm.ErrTurnSuperseded)

	if s.Next() {
		t.Fatal("expected Next to stop after cancellation")
	}
	if !errors.Is(s.Err(), llm.ErrTurnSuperseded) {
		t.Fatalf("err = %v, want ErrTurnSuperseded", s.Err())
	}
}

func TestStub_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(0).Stream(ctx, llm.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
