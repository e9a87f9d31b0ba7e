package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/heartmarshall/luminary-backend/internal/service/coach"
	"sync"
)

var _ coachService = &coachServiceMock{}

type coachServiceMock struct {
	CancelTurnFunc         func(ctx context.Context, conversationID uuid.UUID) (bool, error)
	CreateConversationFunc func(ctx context.Context, input coach.CreateConversationInput) (*domain.Conversation, error)
	DeleteConversationFunc func(ctx context.Context, conversationID uuid.UUID) error
	GetConversationFunc    func(ctx context.Context, conversationID uuid.UUID) (*domain.Conversation, error)
	ListConversationsFunc  func(ctx context.Context, input coach.ListConversationsInput) ([]*domain.Conversation, error)
	ListMessagesFunc       func(ctx context.Context, input coach.ListMessagesInput) ([]*domain.Message, error)
	StartTurnFunc          func(ctx context.Context, input coach.TurnInput) (*coach.Turn, error)

	calls struct {
		CancelTurn []struct {
			Ctx            context.Context
			ConversationID uuid.UUID
		}
		CreateConversation []struct {
			Ctx   context.Context
			Input coach.CreateConversationInput
		}
		DeleteConversation []struct {
			Ctx            context.Context
			ConversationID uuid.UUID
		}
		GetConversation []struct {
			Ctx            context.Context
			ConversationID uuid.UUID
		}
		ListConversations []struct {
			Ctx   context.Context
			Input coach.ListConversationsInput
		}
		ListMessages []struct {
			Ctx   context.Context
			Input coach.ListMessagesInput
		}
		StartTurn []struct {
			Ctx   context.Context
			Input coach.TurnInput
		}
	}
	lockCancelTurn         sync.RWMutex
	lockCreateConversation sync.RWMutex
	lockDeleteConversation sync.RWMutex
	lockGetConversation    sync.RWMutex
	lockListConversations  sync.RWMutex
	lockListMessages       sync.RWMutex
	lockStartTurn          sync.RWMutex
}

func (mock *coachServiceMock) CancelTurn(ctx context.Context, conversationID uuid.UUID) (bool, error) {
	if mock.CancelTurnFunc == nil {
		panic("coachServiceMock.CancelTurnFunc: method is nil but coachService.CancelTurn was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		ConversationID uuid.UUID
	}{Ctx: ctx, ConversationID: conversationID}
	mock.lockCancelTurn.Lock()
	mock.calls.CancelTurn = append(mock.calls.CancelTurn, callInfo)
	mock.lockCancelTurn.Unlock()
	return mock.CancelTurnFunc(ctx, conversationID)
}

func (mock *coachServiceMock) CancelTurnCalls() []struct {
	Ctx            context.Context
	ConversationID uuid.UUID
} {
	mock.lockCancelTurn.RLock()
	calls := mock.calls.CancelTurn
	mock.lockCancelTurn.RUnlock()
	return calls
}

func (mock *coachServiceMock) CreateConversation(ctx context.Context, input coach.CreateConversationInput) (*domain.Conversation, error) {
	if mock.CreateConversationFunc == nil {
		panic("coachServiceMock.CreateConversationFunc: method is nil but coachService.CreateConversation was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input coach.CreateConversationInput
	}{Ctx: ctx, Input: input}
	mock.lockCreateConversation.Lock()
	mock.calls.CreateConversation = append(mock.calls.CreateConversation, callInfo)
	mock.lockCreateConversation.Unlock()
	return mock.CreateConversationFunc(ctx, input)
}

func (mock *coachServiceMock) CreateConversationCalls() []struct {
	Ctx   context.Context
	Input coach.CreateConversationInput
} {
	mock.lockCreateConversation.RLock()
	calls := mock.calls.CreateConversation
	mock.lockCreateConversation.RUnlock()
	return calls
}

func (mock *coachServiceMock) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	if mock.DeleteConversationFunc == nil {
		panic("coachServiceMock.DeleteConversationFunc: method is nil but coachService.DeleteConversation was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		ConversationID uuid.UUID
	}{Ctx: ctx, ConversationID: conversationID}
	mock.lockDeleteConversation.Lock()
	mock.calls.DeleteConversation = append(mock.calls.DeleteConversation, callInfo)
	mock.lockDeleteConversation.Unlock()
	return mock.DeleteConversationFunc(ctx, conversationID)
}

func (mock *coachServiceMock) DeleteConversationCalls() []struct {
	Ctx            context.Context
	ConversationID uuid.UUID
} {
	mock.lockDeleteConversation.RLock()
	calls := mock.calls.DeleteConversation
	mock.lockDeleteConversation.RUnlock()
	return calls
}

func (mock *coachServiceMock) GetConversation(ctx context.Context, conversationID uuid.UUID) (*domain.Conversation, error) {
	if mock.GetConversationFunc == nil {
		panic("coachServiceMock.GetConversationFunc: method is nil but coachService.GetConversation was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		ConversationID uuid.UUID
	}{Ctx: ctx, ConversationID: conversationID}
	mock.lockGetConversation.Lock()
	mock.calls.GetConversation = append(mock.calls.GetConversation, callInfo)
	mock.lockGetConversation.Unlock()
	return mock.GetConversationFunc(ctx, conversationID)
}

func (mock *coachServiceMock) GetConversationCalls() []struct {
	Ctx            context.Context
	ConversationID uuid.UUID
} {
	mock.lockGetConversation.RLock()
	calls := mock.calls.GetConversation
	mock.lockGetConversation.RUnlock()
	return calls
}

func (mock *coachServiceMock) ListConversations(ctx context.Context, input coach.ListConversationsInput) ([]*domain.Conversation, error) {
	if mock.ListConversationsFunc == nil {
		panic("coachServiceMock.ListConversationsFunc: method is nil but coachService.ListConversations was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input coach.ListConversationsInput
	}{Ctx: ctx, Input: input}
	mock.lockListConversations.Lock()
	mock.calls.ListConversations = append(mock.calls.ListConversations, callInfo)
	mock.lockListConversations.Unlock()
	return mock.ListConversationsFunc(ctx, input)
}

func (mock *coachServiceMock) ListConversationsCalls() []struct {
	Ctx   context.Context
	Input coach.ListConversationsInput
} {
	mock.lockListConversations.RLock()
	calls := mock.calls.ListConversations
	mock.lockListConversations.RUnlock()
	return calls
}

func (mock *coachServiceMock) ListMessages(ctx context.Context, input coach.ListMessagesInput) ([]*domain.Message, error) {
	if mock.ListMessagesFunc == nil {
		panic("coachServiceMock.ListMessagesFunc: method is nil but coachService.ListMessages was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input coach.ListMessagesInput
	}{Ctx: ctx, Input: input}
	mock.lockListMessages.Lock()
	mock.calls.ListMessages = append(mock.calls.ListMessages, callInfo)
	mock.lockListMessages.Unlock()
	return mock.ListMessagesFunc(ctx, input)
}

func (mock *coachServiceMock) ListMessagesCalls() []struct {
	Ctx   context.Context
	Input coach.ListMessagesInput
} {
	mock.lockListMessages.RLock()
	calls := mock.calls.ListMessages
	mock.lockListMessages.RUnlock()
	return calls
}

func (mock *coachServiceMock) StartTurn(ctx context.Context, input coach.TurnInput) (*coach.Turn, error) {
	if mock.StartTurnFunc == nil {
		panic("coachServiceMock.StartTurnFunc: method is nil but coachService.StartTurn was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input coach.TurnInput
	}{Ctx: ctx, Input: input}
	mock.lockStartTurn.Lock()
	mock.calls.StartTurn = append(mock.calls.StartTurn, callInfo)
	mock.lockStartTurn.Unlock()
	return mock.StartTurnFunc(ctx, input)
}

func (mock *coachServiceMock) StartTurnCalls() []struct {
	Ctx   context.Context
	Input coach.TurnInput
} {
	mock.lockStartTurn.RLock()
	calls := mock.calls.StartTurn
	mock.lockStartTurn.RUnlock()
	return calls
}
