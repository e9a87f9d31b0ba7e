package coach

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/luminary-backend/internal/domain"
	"github.com/shopspring/decimal"
	"sync"
	"time"
)

var _ wellnessRepo = &wellnessRepoMock{}

type wellnessRepoMock struct {
	GetCheckinFunc          func(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyCheckin, error)
	GetDayPlanFunc          func(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DayPlan, error)
	GetProfileFunc          func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	ListCompletionDatesFunc func(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)
	SumSavingsFunc          func(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error)
	SumWellnessSpendingFunc func(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error)

	calls struct {
		GetCheckin []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Day    time.Time
		}
		GetDayPlan []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Day    time.Time
		}
		GetProfile []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		ListCompletionDates []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Since  time.Time
		}
		SumSavings []struct {
			Ctx    context.Context
			UserID uuid.UUID
			From   time.Time
		}
		SumWellnessSpending []struct {
			Ctx    context.Context
			UserID uuid.UUID
			From   time.Time
		}
	}
	lockGetCheckin          sync.RWMutex
	lockGetDayPlan          sync.RWMutex
	lockGetProfile          sync.RWMutex
	lockListCompletionDates sync.RWMutex
	lockSumSavings          sync.RWMutex
	lockSumWellnessSpending sync.RWMutex
}

func (mock *wellnessRepoMock) GetCheckin(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyCheckin, error) {
	if mock.GetCheckinFunc == nil {
		panic("wellnessRepoMock.GetCheckinFunc: method is nil but wellnessRepo.GetCheckin was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Day    time.Time
	}{Ctx: ctx, UserID: userID, Day: day}
	mock.lockGetCheckin.Lock()
	mock.calls.GetCheckin = append(mock.calls.GetCheckin, callInfo)
	mock.lockGetCheckin.Unlock()
	return mock.GetCheckinFunc(ctx, userID, day)
}

func (mock *wellnessRepoMock) GetCheckinCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Day    time.Time
} {
	mock.lockGetCheckin.RLock()
	calls := mock.calls.GetCheckin
	mock.lockGetCheckin.RUnlock()
	return calls
}

func (mock *wellnessRepoMock) GetDayPlan(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DayPlan, error) {
	if mock.GetDayPlanFunc == nil {
		panic("wellnessRepoMock.GetDayPlanFunc: method is nil but wellnessRepo.GetDayPlan was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Day    time.Time
	}{Ctx: ctx, UserID: userID, Day: day}
	mock.lockGetDayPlan.Lock()
	mock.calls.GetDayPlan = append(mock.calls.GetDayPlan, callInfo)
	mock.lockGetDayPlan.Unlock()
	return mock.GetDayPlanFunc(ctx, userID, day)
}

func (mock *wellnessRepoMock) GetDayPlanCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Day    time.Time
} {
	mock.lockGetDayPlan.RLock()
	calls := mock.calls.GetDayPlan
	mock.lockGetDayPlan.RUnlock()
	return calls
}

func (mock *wellnessRepoMock) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if mock.GetProfileFunc == nil {
		panic("wellnessRepoMock.GetProfileFunc: method is nil but wellnessRepo.GetProfile was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockGetProfile.Lock()
	mock.calls.GetProfile = append(mock.calls.GetProfile, callInfo)
	mock.lockGetProfile.Unlock()
	return mock.GetProfileFunc(ctx, userID)
}

func (mock *wellnessRepoMock) GetProfileCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockGetProfile.RLock()
	calls := mock.calls.GetProfile
	mock.lockGetProfile.RUnlock()
	return calls
}

func (mock *wellnessRepoMock) ListCompletionDates(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	if mock.ListCompletionDatesFunc == nil {
		panic("wellnessRepoMock.ListCompletionDatesFunc: method is nil but wellnessRepo.ListCompletionDates was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Since  time.Time
	}{Ctx: ctx, UserID: userID, Since: since}
	mock.lockListCompletionDates.Lock()
	mock.calls.ListCompletionDates = append(mock.calls.ListCompletionDates, callInfo)
	mock.lockListCompletionDates.Unlock()
	return mock.ListCompletionDatesFunc(ctx, userID, since)
}

func (mock *wellnessRepoMock) ListCompletionDatesCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Since  time.Time
} {
	mock.lockListCompletionDates.RLock()
	calls := mock.calls.ListCompletionDates
	mock.lockListCompletionDates.RUnlock()
	return calls
}

func (mock *wellnessRepoMock) SumSavings(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error) {
	if mock.SumSavingsFunc == nil {
		panic("wellnessRepoMock.SumSavingsFunc: method is nil but wellnessRepo.SumSavings was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		From   time.Time
	}{Ctx: ctx, UserID: userID, From: from}
	mock.lockSumSavings.Lock()
	mock.calls.SumSavings = append(mock.calls.SumSavings, callInfo)
	mock.lockSumSavings.Unlock()
	return mock.SumSavingsFunc(ctx, userID, from)
}

func (mock *wellnessRepoMock) SumSavingsCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	From   time.Time
} {
	mock.lockSumSavings.RLock()
	calls := mock.calls.SumSavings
	mock.lockSumSavings.RUnlock()
	return calls
}

func (mock *wellnessRepoMock) SumWellnessSpending(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error) {
	if mock.SumWellnessSpendingFunc == nil {
		panic("wellnessRepoMock.SumWellnessSpendingFunc: method is nil but wellnessRepo.SumWellnessSpending was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		From   time.Time
	}{Ctx: ctx, UserID: userID, From: from}
	mock.lockSumWellnessSpending.Lock()
	mock.calls.SumWellnessSpending = append(mock.calls.SumWellnessSpending, callInfo)
	mock.lockSumWellnessSpending.Unlock()
	return mock.SumWellnessSpendingFunc(ctx, userID, from)
}

func (mock *wellnessRepoMock) SumWellnessSpendingCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	From   time.Time
} {
	mock.lockSumWellnessSpending.RLock()
	calls := mock.calls.SumWellnessSpending
	mock.lockSumWellnessSpending.RUnlock()
	return calls
}
