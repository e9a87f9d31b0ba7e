package rest

import (
	"time"

	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/internal/realtime"
)

type conversationResponse struct {
	ID            string     `json:"id"`
	Title         *string    `json:"title,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
	KeyInsights   []string   `json:"keyInsights"`
	IsActive      bool       `json:"isActive"`
	IsPinned      bool       `json:"isPinned"`
	MessageCount  int        `json:"messageCount"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type messageResponse struct {
	ID               string    `json:"id"`
	ConversationID   string    `json:"conversationId"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	Model            *string   `json:"model,omitempty"`
	TokensUsed       *int      `json:"tokensUsed,omitempty"`
	ProcessingTimeMs *int      `json:"processingTimeMs,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type eventResponse struct {
	Type         string                `json:"type"`
	Message      *messageResponse      `json:"message,omitempty"`
	Conversation *conversationResponse `json:"conversation,omitempty"`
}

func toConversationResponse(c *domain.Conversation) conversationResponse {
	insights := c.KeyInsights
	if insights == nil {
		insights = []string{}
	}
	return conversationResponse{
		ID:            c.ID.String(),
		Title:         c.Title,
		Summary:       c.Summary,
		KeyInsights:   insights,
		IsActive:      c.IsActive,
		IsPinned:      c.IsPinned,
		MessageCount:  c.MessageCount,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:               m.ID.String(),
		ConversationID:   m.ConversationID.String(),
		Role:             m.Role.String(),
		Content:          m.Content,
		Model:            m.Model,
		TokensUsed:       m.TokensUsed,
		ProcessingTimeMs: m.ProcessingTimeMs,
		CreatedAt:        m.CreatedAt,
	}
}

func toEventResponse(ev realtime.Event) eventResponse {
	resp := eventResponse{Type: ev.Type}
	if ev.Message != nil {
		m := toMessageResponse(ev.Message)
		resp.Message = &m
	}
	if ev.Conversation != nil {
		c := toConversationResponse(ev.Conversation)
		resp.Conversation = &c
	}
	return resp
}
