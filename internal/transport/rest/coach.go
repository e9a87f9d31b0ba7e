package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/internal/realtime"
	"github.com/heartmarshall/luminary-backend/internal/service/coach"
)

// Response metadata of POST /coach/chat. The status, message id and saved
// flag are HTTP trailers since they are only known once the stream ends.
const (
	HeaderConversationID = "X-Coach-Conversation-Id"
	TrailerStatus        = "X-Coach-Status"
	TrailerMessageID     = "X-Coach-Message-Id"
	TrailerSaved         = "X-Coach-Saved"
)

// Values of the X-Coach-Status trailer.
const (
	StatusComplete  = "complete"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

//go:generate moq -out coach_service_mock_test.go -pkg rest . coachService

type coachService interface {
	StartTurn(ctx context.Context, input coach.TurnInput) (*coach.Turn, error)
	CancelTurn(ctx context.Context, conversationID uuid.UUID) (bool, error)
	CreateConversation(ctx context.Context, input coach.CreateConversationInput) (*domain.Conversation, error)
	GetConversation(ctx context.Context, conversationID uuid.UUID) (*domain.Conversation, error)
	ListConversations(ctx context.Context, input coach.ListConversationsInput) ([]*domain.Conversation, error)
	ListMessages(ctx context.Context, input coach.ListMessagesInput) ([]*domain.Message, error)
	DeleteConversation(ctx context.Context, conversationID uuid.UUID) error
}

type chatTurn interface {
	ConversationID() uuid.UUID
	Relay(write func(delta string) error) (coach.TurnResult, error)
}

type eventSource interface {
	Subscribe(topic string) (<-chan realtime.Event, func())
}

// CoachHandler serves the coach chat and conversation endpoints.
type CoachHandler struct {
	svc      coachService
	events   eventSource
	log      *slog.Logger
	start    func(ctx context.Context, input coach.TurnInput) (chatTurn, error)
	upgrader websocket.Upgrader

	closing   chan struct{}
	closeOnce sync.Once
}

// NewCoachHandler creates a CoachHandler. allowedOrigins limits which
// browser origins may open the events websocket; "*" allows any.
func NewCoachHandler(svc coachService, events eventSource, logger *slog.Logger, allowedOrigins []string) *CoachHandler {
	h := &CoachHandler{
		svc:     svc,
		events:  events,
		log:     logger.With("handler", "coach"),
		closing: make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
	h.start = func(ctx context.Context, input coach.TurnInput) (chatTurn, error) {
		turn, err := svc.StartTurn(ctx, input)
		if err != nil {
			return nil, err
		}
		return turn, nil
	}
	return h
}

// Routes registers the coach endpoints. Authentication is applied by the
// caller; chat middlewares wrap POST /coach/chat only.
func (h *CoachHandler) Routes(r chi.Router, chat ...func(http.Handler) http.Handler) {
	r.With(chat...).Post("/coach/chat", h.Chat)
	r.Route("/coach/conversations", func(r chi.Router) {
		r.Post("/", h.CreateConversation)
		r.Get("/", h.ListConversations)
		r.Delete("/{id}", h.DeleteConversation)
		r.Get("/{id}/messages", h.ListMessages)
		r.Delete("/{id}/turn", h.CancelTurn)
		r.Get("/{id}/events", h.Events)
	})
}

// Shutdown closes open event streams with a going-away frame.
func (h *CoachHandler) Shutdown() {
	h.closeOnce.Do(func() { close(h.closing) })
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// Chat handles POST /coach/chat. Reply fragments are written as plain text
// and flushed as they arrive. Failures before the first fragment are
// answered with a JSON error; later ones only through the status trailer.
func (h *CoachHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var convID uuid.UUID
	if req.ConversationID != "" {
		id, err := uuid.Parse(req.ConversationID)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("conversationId", "must be a valid uuid"))
			return
		}
		convID = id
	}

	turn, err := h.start(r.Context(), coach.TurnInput{ConversationID: convID, Message: req.Message})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	started := false
	begin := func() {
		if started {
			return
		}
		started = true
		hdr := w.Header()
		hdr.Set("Content-Type", "text/plain; charset=utf-8")
		hdr.Set("Cache-Control", "no-cache")
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set(HeaderConversationID, turn.ConversationID().String())
		hdr.Set("Trailer", strings.Join([]string{TrailerStatus, TrailerMessageID, TrailerSaved}, ", "))
		w.WriteHeader(http.StatusOK)
	}

	result, err := turn.Relay(func(delta string) error {
		begin()
		if _, err := io.WriteString(w, delta); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	})

	switch {
	case err == nil:
		begin()
		w.Header().Set(TrailerStatus, StatusComplete)
		w.Header().Set(TrailerSaved, strconv.FormatBool(result.Saved))
		if result.Message != nil {
			w.Header().Set(TrailerMessageID, result.Message.ID.String())
		}
	case coach.IsCancelled(err):
		begin()
		w.Header().Set(TrailerStatus, StatusCancelled)
	case !started:
		handleError(h.log, w, r, err)
	default:
		w.Header().Set(TrailerStatus, StatusError)
	}
}

// CancelTurn handles DELETE /coach/conversations/{id}/turn.
func (h *CoachHandler) CancelTurn(w http.ResponseWriter, r *http.Request) {
	id, err := conversationIDParam(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	cancelled, err := h.svc.CancelTurn(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if !cancelled {
		writeError(w, http.StatusNotFound, "no turn in progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func conversationIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid uuid")
	}
	return id, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			a = strings.TrimSpace(a)
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
