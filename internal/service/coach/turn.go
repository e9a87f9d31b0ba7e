package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/internal/llm"
	"github.com/heartmarshall/luminary-backend/internal/realtime"
	"github.com/heartmarshall/luminary-backend/pkg/ctxutil"
)

var (
	// ErrEmptyReply is returned when the model completes without any text.
	ErrEmptyReply = fmt.Errorf("%w: empty reply", llm.ErrUpstreamUnavailable)

	// ErrClientGone is returned when the reply could not be written back to
	// the caller. The turn is abandoned like a cancellation.
	ErrClientGone = errors.New("client stopped reading")
)

// Turn is one running generation. Relay must be called exactly once.
type Turn struct {
	svc          *Service
	ctx          context.Context
	cancel       context.CancelCauseFunc
	slot         *slot
	userID       uuid.UUID
	conversation *domain.Conversation
	userMessage  *domain.Message
	snapshot     domain.ContextSnapshot
	stream       llm.Stream
	startedAt    time.Time
}

// TurnResult describes a completed turn. Saved is false when the reply was
// delivered but could not be stored.
type TurnResult struct {
	Message *domain.Message
	Saved   bool
	Text    string
}

// StartTurn persists the user message and opens the model stream. A running
// turn of the same conversation is cancelled first. Without a conversation
// id a new conversation is created together with the user message.
func (s *Service) StartTurn(ctx context.Context, input TurnInput) (*Turn, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var conv *domain.Conversation
	isNew := input.ConversationID == uuid.Nil
	if isNew {
		conv = s.newConversation(userID, domain.DefaultConversationTitle)
	} else {
		var err error
		conv, err = s.conversations.GetByID(ctx, userID, input.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("get conversation: %w", err)
		}
	}

	turnCtx, cancel := context.WithCancelCause(ctx)
	sl := s.turns.begin(conv.ID, cancel, s.now)
	release := func() {
		s.turns.end(conv.ID, sl)
		cancel(context.Canceled)
	}

	userMsg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		UserID:         userID,
		Role:           domain.RoleUser,
		Content:        strings.TrimSpace(input.Message),
		CreatedAt:      sl.startedAt,
	}

	err := s.tx.RunInTx(turnCtx, func(ctx context.Context) error {
		if isNew {
			if _, err := s.conversations.Create(ctx, conv); err != nil {
				return fmt.Errorf("create conversation: %w", err)
			}
		}

		created, err := s.messages.Create(ctx, userMsg)
		if err != nil {
			return fmt.Errorf("create user message: %w", err)
		}
		userMsg = created

		conv, err = s.conversations.Touch(ctx, conv.ID, created.CreatedAt)
		if err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		release()
		if turnCtx.Err() != nil {
			return nil, context.Cause(turnCtx)
		}
		return nil, err
	}
	if isNew {
		s.log.InfoContext(ctx, "conversation created",
			slog.String("user_id", userID.String()),
			slog.String("conversation_id", conv.ID.String()),
		)
	}
	s.publish(conv.ID, realtime.Event{Type: realtime.EventMessageCreated, Message: userMsg})

	snap := s.assembleContext(turnCtx, userID)

	history, err := s.messages.ListRecent(turnCtx, conv.ID, s.cfg.HistoryLimit)
	if err != nil {
		release()
		return nil, fmt.Errorf("load history: %w", err)
	}

	stream, err := s.streamer.Stream(turnCtx, llm.Request{
		Model:       s.cfg.Model,
		System:      renderSystemPrompt(snap),
		Messages:    buildHistory(history, userMsg),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		release()
		if llm.IsCancellation(err) {
			return nil, err
		}
		s.log.ErrorContext(ctx, "open model stream",
			slog.String("conversation_id", conv.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "turn started",
		slog.String("user_id", userID.String()),
		slog.String("conversation_id", conv.ID.String()),
		slog.Int("history", len(history)),
	)

	return &Turn{
		svc:          s,
		ctx:          turnCtx,
		cancel:       cancel,
		slot:         sl,
		userID:       userID,
		conversation: conv,
		userMessage:  userMsg,
		snapshot:     snap,
		stream:       stream,
		startedAt:    s.now(),
	}, nil
}

// buildHistory converts stored messages to model turns, making sure the
// current user message is the last one. System rows are not replayed.
func buildHistory(stored []*domain.Message, current *domain.Message) []llm.Message {
	out := make([]llm.Message, 0, len(stored)+1)
	seen := false
	for _, m := range stored {
		switch m.Role {
		case domain.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: m.Content})
		case domain.RoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: m.Content})
		default:
			continue
		}
		seen = m.ID == current.ID
	}
	if !seen {
		out = append(out, llm.Message{Role: llm.RoleUser, Content: current.Content})
	}
	return out
}

// ConversationID returns the conversation the turn belongs to.
func (t *Turn) ConversationID() uuid.UUID { return t.conversation.ID }

// UserMessage returns the persisted user message of the turn.
func (t *Turn) UserMessage() *domain.Message { return t.userMessage }

// Relay forwards reply fragments to write as they arrive. When the stream
// completes, the full reply is stored with the conversation bump and memory
// extraction is scheduled. On cancellation or failure nothing is stored and
// the partial text is discarded.
func (t *Turn) Relay(write func(delta string) error) (TurnResult, error) {
	s := t.svc
	defer func() {
		_ = t.stream.Close()
		s.turns.end(t.conversation.ID, t.slot)
		t.cancel(context.Canceled)
	}()

	log := s.log.With(
		slog.String("conversation_id", t.conversation.ID.String()),
		slog.String("user_id", t.userID.String()),
	)

	var buf strings.Builder
	for t.stream.Next() {
		delta := t.stream.Delta()
		buf.WriteString(delta)
		if err := write(delta); err != nil {
			t.cancel(ErrClientGone)
			log.DebugContext(t.ctx, "turn abandoned by client", slog.String("error", err.Error()))
			return TurnResult{}, fmt.Errorf("%w: %v", ErrClientGone, err)
		}
	}

	if err := t.stream.Err(); err != nil {
		if llm.IsCancellation(err) {
			log.DebugContext(t.ctx, "turn cancelled", slog.String("cause", err.Error()))
		} else {
			log.WarnContext(t.ctx, "turn failed", slog.String("error", err.Error()))
		}
		return TurnResult{}, err
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		log.WarnContext(t.ctx, "model returned an empty reply")
		return TurnResult{}, ErrEmptyReply
	}

	elapsed := s.now().Sub(t.startedAt)
	result := TurnResult{Text: text}

	// The reply is complete; storing it must not depend on the client
	// staying connected.
	ctx := context.WithoutCancel(t.ctx)
	msg, err := t.persist(ctx, text, elapsed)
	if err != nil {
		log.ErrorContext(ctx, "store assistant message", slog.String("error", err.Error()))
		return result, nil
	}
	result.Message = msg
	result.Saved = true

	log.InfoContext(ctx, "turn completed",
		slog.String("message_id", msg.ID.String()),
		slog.Int("chars", len(text)),
		slog.Duration("duration", elapsed),
		slog.String("model", s.cfg.Model),
	)

	s.scheduleExtraction(ctx, t.userID, msg)
	return result, nil
}

func (t *Turn) persist(ctx context.Context, text string, elapsed time.Duration) (*domain.Message, error) {
	s := t.svc

	createdAt := s.turns.replyTime(t.slot, s.now)
	if !createdAt.After(t.userMessage.CreatedAt) {
		createdAt = t.userMessage.CreatedAt.Add(time.Microsecond)
	}

	model := s.cfg.Model
	ms := int(elapsed.Milliseconds())
	snap := t.snapshot
	msg := &domain.Message{
		ID:               uuid.New(),
		ConversationID:   t.conversation.ID,
		UserID:           t.userID,
		Role:             domain.RoleAssistant,
		Content:          text,
		Model:            &model,
		ProcessingTimeMs: &ms,
		ContextSnapshot:  &snap,
		CreatedAt:        createdAt,
	}
	if u := t.stream.Usage(); u.CompletionTokens > 0 {
		tokens := u.CompletionTokens
		msg.TokensUsed = &tokens
	}

	var conv *domain.Conversation
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		created, err := s.messages.Create(ctx, msg)
		if err != nil {
			return fmt.Errorf("create assistant message: %w", err)
		}
		msg = created

		conv, err = s.conversations.Touch(ctx, t.conversation.ID, created.CreatedAt)
		if err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(conv.ID, realtime.Event{Type: realtime.EventMessageCreated, Message: msg})
	s.publish(conv.ID, realtime.Event{Type: realtime.EventConversationUpdated, Conversation: conv})
	return msg, nil
}

// scheduleExtraction upserts memory candidates of msg in the background.
func (s *Service) scheduleExtraction(ctx context.Context, userID uuid.UUID, msg *domain.Message) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.ExtractionTimeout)
		defer cancel()

		s.extractMemories(ctx, userID, msg)
	}()
}

func (s *Service) extractMemories(ctx context.Context, userID uuid.UUID, msg *domain.Message) {
	candidates := s.extractor.Extract(msg.Content)
	stored := 0
	for _, c := range candidates {
		if _, err := s.memories.Upsert(ctx, userID, c, &msg.ID); err != nil {
			s.log.WarnContext(ctx, "upsert memory",
				slog.String("key", c.Key),
				slog.String("error", err.Error()),
			)
			continue
		}
		stored++
	}
	if stored > 0 {
		s.log.DebugContext(ctx, "memories extracted",
			slog.String("message_id", msg.ID.String()),
			slog.Int("count", stored),
		)
	}
}

// CancelTurn stops the running turn of a conversation the caller owns.
// It reports whether a turn was running.
func (s *Service) CancelTurn(ctx context.Context, conversationID uuid.UUID) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	if _, err := s.conversations.GetByID(ctx, userID, conversationID); err != nil {
		return false, fmt.Errorf("get conversation: %w", err)
	}

	return s.turns.cancel(conversationID, context.Canceled), nil
}

// IsCancelled reports whether err ended a turn by cancellation rather than failure.
func IsCancelled(err error) bool {
	return llm.IsCancellation(err) || errors.Is(err, ErrClientGone)
}
