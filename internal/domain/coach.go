package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConversationTitle is used when a conversation is created without a title.
const DefaultConversationTitle = "New Conversation"

// Conversation is a named thread of turns between one user and the coach.
type Conversation struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         *string
	Summary       *string
	KeyInsights   []string
	IsActive      bool
	IsPinned      bool
	MessageCount  int
	LastMessageAt *time.Time
	CreatedAt     time.Time
}

// Message is one immutable entry of a conversation.
type Message struct {
	ID               uuid.UUID
	ConversationID   uuid.UUID
	UserID           uuid.UUID
	Role             Role
	Content          string
	Model            *string
	TokensUsed       *int
	ProcessingTimeMs *int
	ContextSnapshot  *ContextSnapshot
	CreatedAt        time.Time
}

// MemoryEntry is a durable fact about a user. (UserID, Category, Key) is unique.
type MemoryEntry struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Category        MemoryCategory
	Key             string
	Value           string
	Confidence      float64
	SourceMessageID *uuid.UUID
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MemoryCandidate is a fact proposed by an extractor, not yet stored.
type MemoryCandidate struct {
	Category MemoryCategory
	Key      string
	Value    string
}
