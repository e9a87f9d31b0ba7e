package coach

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// assembleContext gathers the user's state for one generation. Sources are
// read concurrently and each one that fails or has no row keeps its default.
func (s *Service) assembleContext(ctx context.Context, userID uuid.UUID) domain.ContextSnapshot {
	today := civilDay(s.now(), s.cfg.Location)
	since := today.AddDate(0, 0, -s.cfg.StreakLookbackDays)
	month := monthStart(today)

	var (
		profile  *domain.Profile
		checkin  *domain.DailyCheckin
		plan     *domain.DayPlan
		dates    []time.Time
		saved    decimal.Decimal
		wellness decimal.Decimal
		memories []*domain.MemoryEntry
	)

	var g errgroup.Group
	g.Go(func() error {
		profile = degrade(ctx, s.log, "profile", func() (*domain.Profile, error) {
			return s.wellness.GetProfile(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		checkin = degrade(ctx, s.log, "checkin", func() (*domain.DailyCheckin, error) {
			return s.wellness.GetCheckin(ctx, userID, today)
		})
		return nil
	})
	g.Go(func() error {
		plan = degrade(ctx, s.log, "day_plan", func() (*domain.DayPlan, error) {
			return s.wellness.GetDayPlan(ctx, userID, today)
		})
		return nil
	})
	g.Go(func() error {
		dates = degrade(ctx, s.log, "completions", func() ([]time.Time, error) {
			return s.wellness.ListCompletionDates(ctx, userID, since)
		})
		return nil
	})
	g.Go(func() error {
		saved = degrade(ctx, s.log, "savings", func() (decimal.Decimal, error) {
			return s.wellness.SumSavings(ctx, userID, month)
		})
		return nil
	})
	g.Go(func() error {
		wellness = degrade(ctx, s.log, "wellness_spending", func() (decimal.Decimal, error) {
			return s.wellness.SumWellnessSpending(ctx, userID, month)
		})
		return nil
	})
	g.Go(func() error {
		memories = degrade(ctx, s.log, "memories", func() ([]*domain.MemoryEntry, error) {
			return s.memories.ListActive(ctx, userID, s.cfg.MemoryLimit)
		})
		return nil
	})
	_ = g.Wait()

	snap := domain.DefaultContextSnapshot()
	snap.ApplyProfile(profile)
	snap.ApplyCheckin(checkin)
	snap.ApplyDayPlan(plan)
	snap.Streak = min(calculateStreak(dates, today), s.cfg.StreakLookbackDays)
	snap.SavedMonth = saved
	snap.WellnessMonth = wellness
	for _, m := range memories {
		snap.Memories = append(snap.Memories, domain.MemoryFact{
			Category: m.Category.String(),
			Key:      m.Key,
			Value:    m.Value,
		})
	}

	return snap
}

// degrade runs read and returns its zero value on failure. Missing rows are
// expected; other errors are logged.
func degrade[T any](ctx context.Context, log *slog.Logger, source string, read func() (T, error)) T {
	v, err := read()
	if err == nil {
		return v
	}
	var zero T
	if errors.Is(err, domain.ErrNotFound) {
		return zero
	}
	log.WarnContext(ctx, "context source unavailable",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
	return zero
}
