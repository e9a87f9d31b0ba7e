package coach

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/internal/domain"
)

const (
	maxMessageLength = 8000
	maxTitleLength   = 200
	maxPageSize      = 200
)

// TurnInput holds the parameters for one chat turn. A zero ConversationID
// starts a new conversation with the default title.
type TurnInput struct {
	ConversationID uuid.UUID
	Message        string
}

// Validate checks all fields and collects all errors.
func (i TurnInput) Validate() error {
	var errs []domain.FieldError

	msg := strings.TrimSpace(i.Message)
	if msg == "" {
		errs = append(errs, domain.FieldError{Field: "message", Message: "required"})
	}
	if len(msg) > maxMessageLength {
		errs = append(errs, domain.FieldError{Field: "message", Message: "max 8000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateConversationInput holds the parameters for starting a conversation.
type CreateConversationInput struct {
	Title *string
}

// Validate checks all fields and collects all errors.
func (i CreateConversationInput) Validate() error {
	if i.Title != nil && len(strings.TrimSpace(*i.Title)) > maxTitleLength {
		return domain.NewValidationError("title", "max 200 characters")
	}
	return nil
}

// ListConversationsInput holds pagination for the conversation list.
type ListConversationsInput struct {
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListConversationsInput) Validate() error {
	return validatePage(i.Limit, i.Offset)
}

// ListMessagesInput selects a page of one conversation's messages.
type ListMessagesInput struct {
	ConversationID uuid.UUID
	Limit          int
	Offset         int
}

// Validate checks all fields and collects all errors.
func (i ListMessagesInput) Validate() error {
	var errs []domain.FieldError
	if i.ConversationID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "conversationId", Message: "required"})
	}
	if err := validatePage(i.Limit, i.Offset); err != nil {
		errs = append(errs, err.(*domain.ValidationError).Errors...)
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validatePage(limit, offset int) error {
	var errs []domain.FieldError
	if limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if limit > maxPageSize {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 200"})
	}
	if offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
