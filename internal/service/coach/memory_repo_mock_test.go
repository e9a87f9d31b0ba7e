package coach

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/luminary-backend/internal/domain"
	"sync"
)

var _ memoryRepo = &memoryRepoMock{}

type memoryRepoMock struct {
	ListActiveFunc func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.MemoryEntry, error)
	UpsertFunc     func(ctx context.Context, userID uuid.UUID, c domain.MemoryCandidate, sourceMessageID *uuid.UUID) (*domain.MemoryEntry, error)

	calls struct {
		ListActive []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
		}
		Upsert []struct {
			Ctx             context.Context
			UserID          uuid.UUID
			C               domain.MemoryCandidate
			SourceMessageID *uuid.UUID
		}
	}
	lockListActive sync.RWMutex
	lockUpsert     sync.RWMutex
}

func (mock *memoryRepoMock) ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.MemoryEntry, error) {
	if mock.ListActiveFunc == nil {
		panic("memoryRepoMock.ListActiveFunc: method is nil but memoryRepo.ListActive was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Limit  int
	}{Ctx: ctx, UserID: userID, Limit: limit}
	mock.lockListActive.Lock()
	mock.calls.ListActive = append(mock.calls.ListActive, callInfo)
	mock.lockListActive.Unlock()
	return mock.ListActiveFunc(ctx, userID, limit)
}

func (mock *memoryRepoMock) ListActiveCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
} {
	mock.lockListActive.RLock()
	calls := mock.calls.ListActive
	mock.lockListActive.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Upsert(ctx context.Context, userID uuid.UUID, c domain.MemoryCandidate, sourceMessageID *uuid.UUID) (*domain.MemoryEntry, error) {
	if mock.UpsertFunc == nil {
		panic("memoryRepoMock.UpsertFunc: method is nil but memoryRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx             context.Context
		UserID          uuid.UUID
		C               domain.MemoryCandidate
		SourceMessageID *uuid.UUID
	}{Ctx: ctx, UserID: userID, C: c, SourceMessageID: sourceMessageID}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, userID, c, sourceMessageID)
}

func (mock *memoryRepoMock) UpsertCalls() []struct {
	Ctx             context.Context
	UserID          uuid.UUID
	C               domain.MemoryCandidate
	SourceMessageID *uuid.UUID
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
