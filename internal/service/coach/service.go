// Package coach implements the AI coach conversation flow: context assembly,
// streamed generation, turn persistence and memory extraction.
package coach

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/internal/llm"
	"github.com/heartmarshall/luminary-backend/internal/realtime"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type conversationRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error)
	Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Conversation, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type messageRepo interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	List(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*domain.Message, error)
	ListRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error)
}

type memoryRepo interface {
	Upsert(ctx context.Context, userID uuid.UUID, c domain.MemoryCandidate, sourceMessageID *uuid.UUID) (*domain.MemoryEntry, error)
	ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.MemoryEntry, error)
}

type wellnessRepo interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	GetCheckin(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyCheckin, error)
	GetDayPlan(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DayPlan, error)
	ListCompletionDates(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)
	SumSavings(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error)
	SumWellnessSpending(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventPublisher interface {
	Publish(topic string, ev realtime.Event) int
}

//go:generate moq -out conversation_repo_mock_test.go -pkg coach . conversationRepo
//go:generate moq -out message_repo_mock_test.go -pkg coach . messageRepo
//go:generate moq -out memory_repo_mock_test.go -pkg coach . memoryRepo
//go:generate moq -out wellness_repo_mock_test.go -pkg coach . wellnessRepo
//go:generate moq -out tx_manager_mock_test.go -pkg coach . txManager

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the generation and context parameters of the coach.
type Config struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	HistoryLimit int
	MemoryLimit  int

	// StreakLookbackDays bounds the completion history read per turn and
	// caps the reported streak. Longer streaks are reported as this value.
	StreakLookbackDays int

	Location          *time.Location
	ExtractionTimeout time.Duration
}

// Service implements the coach business logic.
type Service struct {
	conversations conversationRepo
	messages      messageRepo
	memories      memoryRepo
	wellness      wellnessRepo
	tx            txManager
	streamer      llm.Streamer
	extractor     Extractor
	events        eventPublisher
	log           *slog.Logger
	cfg           Config
	now           func() time.Time

	turns      *inflight
	background sync.WaitGroup
}

// NewService creates a new coach service. A nil extractor selects the
// phrase extractor; a nil location selects UTC.
func NewService(
	log *slog.Logger,
	conversations conversationRepo,
	messages messageRepo,
	memories memoryRepo,
	wellness wellnessRepo,
	tx txManager,
	streamer llm.Streamer,
	extractor Extractor,
	events eventPublisher,
	cfg Config,
) *Service {
	if extractor == nil {
		extractor = NewPhraseExtractor()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Service{
		conversations: conversations,
		messages:      messages,
		memories:      memories,
		wellness:      wellness,
		tx:            tx,
		streamer:      streamer,
		extractor:     extractor,
		events:        events,
		log:           log.With("service", "coach"),
		cfg:           cfg,
		now:           time.Now,
		turns:         newInflight(),
	}
}

// Wait blocks until background memory extractions have finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// ActiveTurns reports how many turns are currently streaming.
func (s *Service) ActiveTurns() int {
	return s.turns.count()
}

func (s *Service) publish(conversationID uuid.UUID, ev realtime.Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.ConversationTopic(conversationID), ev)
}
