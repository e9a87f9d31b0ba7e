package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/pkg/ctxutil"
)

const defaultPageSize = 50

// CreateConversation starts an empty conversation for the caller.
func (s *Service) CreateConversation(ctx context.Context, input CreateConversationInput) (*domain.Conversation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	title := domain.DefaultConversationTitle
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		title = strings.TrimSpace(*input.Title)
	}

	conv, err := s.conversations.Create(ctx, s.newConversation(userID, title))
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.log.InfoContext(ctx, "conversation created",
		slog.String("user_id", userID.String()),
		slog.String("conversation_id", conv.ID.String()),
	)

	return conv, nil
}

func (s *Service) newConversation(userID uuid.UUID, title string) *domain.Conversation {
	return &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     &title,
		IsActive:  true,
		CreatedAt: s.now(),
	}
}

// GetConversation returns one of the caller's conversations.
func (s *Service) GetConversation(ctx context.Context, conversationID uuid.UUID) (*domain.Conversation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	conv, err := s.conversations.GetByID(ctx, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// ListConversations returns the caller's conversations, pinned first and
// then by most recent message.
func (s *Service) ListConversations(ctx context.Context, input ListConversationsInput) ([]*domain.Conversation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultPageSize
	}

	convs, err := s.conversations.List(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// ListMessages returns a page of a conversation's messages in creation order.
func (s *Service) ListMessages(ctx context.Context, input ListMessagesInput) ([]*domain.Message, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.conversations.GetByID(ctx, userID, input.ConversationID); err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = maxPageSize
	}

	msgs, err := s.messages.List(ctx, input.ConversationID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// DeleteConversation removes a conversation and its messages and cancels
// its running turn. Memories survive.
func (s *Service) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.conversations.Delete(ctx, userID, conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	s.turns.cancel(conversationID, context.Canceled)

	s.log.InfoContext(ctx, "conversation deleted",
		slog.String("user_id", userID.String()),
		slog.String("conversation_id", conversationID.String()),
	)
	return nil
}
