package coach

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/luminary-backend/internal/domain"
	"sync"
)

var _ messageRepo = &messageRepoMock{}

type messageRepoMock struct {
	CreateFunc     func(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListFunc       func(ctx context.Context, conversationID uuid.UUID, limit int, offset int) ([]*domain.Message, error)
	ListRecentFunc func(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			M   *domain.Message
		}
		List []struct {
			Ctx            context.Context
			ConversationID uuid.UUID
			Limit          int
			Offset         int
		}
		ListRecent []struct {
			Ctx            context.Context
			ConversationID uuid.UUID
			Limit          int
		}
	}
	lockCreate     sync.RWMutex
	lockList       sync.RWMutex
	lockListRecent sync.RWMutex
}

func (mock *messageRepoMock) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if mock.CreateFunc == nil {
		panic("messageRepoMock.CreateFunc: method is nil but messageRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   *domain.Message
	}{Ctx: ctx, M: m}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, m)
}

func (mock *messageRepoMock) CreateCalls() []struct {
	Ctx context.Context
	M   *domain.Message
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *messageRepoMock) List(ctx context.Context, conversationID uuid.UUID, limit int, offset int) ([]*domain.Message, error) {
	if mock.ListFunc == nil {
		panic("messageRepoMock.ListFunc: method is nil but messageRepo.List was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		ConversationID uuid.UUID
		Limit          int
		Offset         int
	}{Ctx: ctx, ConversationID: conversationID, Limit: limit, Offset: offset}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, conversationID, limit, offset)
}

func (mock *messageRepoMock) ListCalls() []struct {
	Ctx            context.Context
	ConversationID uuid.UUID
	Limit          int
	Offset         int
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *messageRepoMock) ListRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error) {
	if mock.ListRecentFunc == nil {
		panic("messageRepoMock.ListRecentFunc: method is nil but messageRepo.ListRecent was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		ConversationID uuid.UUID
		Limit          int
	}{Ctx: ctx, ConversationID: conversationID, Limit: limit}
	mock.lockListRecent.Lock()
	mock.calls.ListRecent = append(mock.calls.ListRecent, callInfo)
	mock.lockListRecent.Unlock()
	return mock.ListRecentFunc(ctx, conversationID, limit)
}

func (mock *messageRepoMock) ListRecentCalls() []struct {
	Ctx            context.Context
	ConversationID uuid.UUID
	Limit          int
} {
	mock.lockListRecent.RLock()
	calls := mock.calls.ListRecent
	mock.lockListRecent.RUnlock()
	return calls
}
