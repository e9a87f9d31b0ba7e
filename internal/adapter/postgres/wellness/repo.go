// Package wellness implements read access to the tracking tables the coach
// conditions on: profiles, daily check-ins, day plans, habit completions and
// finance entries. Writes to these tables belong to the CRUD surface.
package wellness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/luminary-backend/internal/adapter/postgres"
	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// Repo reads wellness tracking data backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new wellness repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Profile and daily state
// ---------------------------------------------------------------------------

const getProfileSQL = `
SELECT id, email, full_name, biological_sex, wake_time, work_start, work_end,
       training_preference, personas, goals, why, currency, created_at, updated_at
FROM profiles
WHERE id = $1`

// GetProfile returns the user's profile or domain.ErrNotFound.
func (r *Repo) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getProfileSQL, userID).Scan(
		&p.ID, &p.Email, &p.FullName, &p.BiologicalSex, &p.WakeTime, &p.WorkStart, &p.WorkEnd,
		&p.TrainingPreference, &p.Personas, &p.Goals, &p.Why, &p.Currency, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "profile", userID)
	}
	return &p, nil
}

const getCheckinSQL = `
SELECT id, user_id, date, energy, clarity, body, mood
FROM daily_checkins
WHERE user_id = $1 AND date = $2`

// GetCheckin returns the check-in for day or domain.ErrNotFound.
func (r *Repo) GetCheckin(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyCheckin, error) {
	var (
		c                      domain.DailyCheckin
		energy, clarity, body int16
	)
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getCheckinSQL, userID, day).Scan(
		&c.ID, &c.UserID, &c.Date, &energy, &clarity, &body, &c.Mood,
	)
	if err != nil {
		return nil, postgres.MapError(err, "daily_checkin", userID)
	}
	c.Energy, c.Clarity, c.Body = int(energy), int(clarity), int(body)
	return &c, nil
}

const getDayPlanSQL = `
SELECT id, user_id, date, word, completion_percentage
FROM hybrid_day_plans
WHERE user_id = $1 AND date = $2`

// GetDayPlan returns the day plan for day or domain.ErrNotFound.
func (r *Repo) GetDayPlan(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DayPlan, error) {
	var p domain.DayPlan
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getDayPlanSQL, userID, day).Scan(
		&p.ID, &p.UserID, &p.Date, &p.Word, &p.CompletionPercentage,
	)
	if err != nil {
		return nil, postgres.MapError(err, "hybrid_day_plan", userID)
	}
	return &p, nil
}

// ---------------------------------------------------------------------------
// Habits
// ---------------------------------------------------------------------------

// ListCompletionDates returns the distinct days on which the user completed
// any habit, on or after since, newest first.
func (r *Repo) ListCompletionDates(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	sql, args, err := postgres.Builder().
		Select("DISTINCT date").
		From("habit_completions").
		Where(squirrel.Eq{"user_id": userID, "completed": true}).
		Where(squirrel.GtOrEq{"date": since}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list habit completion dates: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list habit completion dates: %w", err)
	}

	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("list habit completion dates: %w", err)
	}
	return dates, nil
}

// ---------------------------------------------------------------------------
// Finance
// ---------------------------------------------------------------------------

// SumSavings returns the total saved on or after from.
func (r *Repo) SumSavings(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, "savings_entries", squirrel.Eq{"user_id": userID}, from)
}

// SumWellnessSpending returns the total spent on wellness-tagged entries on or after from.
func (r *Repo) SumWellnessSpending(ctx context.Context, userID uuid.UUID, from time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, "spending_entries", squirrel.Eq{"user_id": userID, "is_wellness": true}, from)
}

// sum reads SUM(amount) as text so numeric precision survives the round trip.
func (r *Repo) sum(ctx context.Context, table string, where squirrel.Eq, from time.Time) (decimal.Decimal, error) {
	sql, args, err := postgres.Builder().
		Select("COALESCE(SUM(amount), 0)::text").
		From(table).
		Where(where).
		Where(squirrel.GtOrEq{"date": from}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum %s: %w", table, err)
	}

	var raw string
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("sum %s: %w", table, err)
	}

	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sum %s %q: %w", table, raw, err)
	}
	return total, nil
}
