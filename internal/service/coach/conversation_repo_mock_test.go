package coach

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/luminary-backend/internal/domain"
	"sync"
	"time"
)

var _ conversationRepo = &conversationRepoMock{}

type conversationRepoMock struct {
	CreateFunc  func(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error)
	DeleteFunc  func(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	GetByIDFunc func(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Conversation, error)
	ListFunc    func(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*domain.Conversation, error)
	TouchFunc   func(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Conversation, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			C   *domain.Conversation
		}
		Delete []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
		}
		GetByID []struct {
			Ctx    context.Context
			UserID uuid.UUID
			ID     uuid.UUID
		}
		List []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
			Offset int
		}
		Touch []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
	}
	lockCreate  sync.RWMutex
	lockDelete  sync.RWMutex
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
	lockTouch   sync.RWMutex
}

func (mock *conversationRepoMock) Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error) {
	if mock.CreateFunc == nil {
		panic("conversationRepoMock.CreateFunc: method is nil but conversationRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C   *domain.Conversation
	}{Ctx: ctx, C: c}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, c)
}

func (mock *conversationRepoMock) CreateCalls() []struct {
	Ctx context.Context
	C   *domain.Conversation
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *conversationRepoMock) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("conversationRepoMock.DeleteFunc: method is nil but conversationRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, UserID: userID, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, userID, id)
}

func (mock *conversationRepoMock) DeleteCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *conversationRepoMock) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Conversation, error) {
	if mock.GetByIDFunc == nil {
		panic("conversationRepoMock.GetByIDFunc: method is nil but conversationRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, UserID: userID, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, userID, id)
}

func (mock *conversationRepoMock) GetByIDCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *conversationRepoMock) List(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*domain.Conversation, error) {
	if mock.ListFunc == nil {
		panic("conversationRepoMock.ListFunc: method is nil but conversationRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Limit  int
		Offset int
	}{Ctx: ctx, UserID: userID, Limit: limit, Offset: offset}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, userID, limit, offset)
}

func (mock *conversationRepoMock) ListCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
	Offset int
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *conversationRepoMock) Touch(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Conversation, error) {
	if mock.TouchFunc == nil {
		panic("conversationRepoMock.TouchFunc: method is nil but conversationRepo.Touch was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{Ctx: ctx, ID: id, At: at}
	mock.lockTouch.Lock()
	mock.calls.Touch = append(mock.calls.Touch, callInfo)
	mock.lockTouch.Unlock()
	return mock.TouchFunc(ctx, id, at)
}

func (mock *conversationRepoMock) TouchCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	At  time.Time
} {
	mock.lockTouch.RLock()
	calls := mock.calls.Touch
	mock.lockTouch.RUnlock()
	return calls
}
