package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProfile creates a profile with only the required columns set, so every
// optional context field falls back to its default.
func SeedProfile(t *testing.T, pool *pgxpool.Pool) domain.Profile {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Profile{
		ID:        uuid.New(),
		Email:     "testuser-" + uniqueSuffix() + "@example.com",
		Currency:  domain.DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, email, currency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Email, p.Currency, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile: %v", err)
	}

	return p
}

// SeedFullProfile creates a profile with every onboarding answer filled in.
func SeedFullProfile(t *testing.T, pool *pgxpool.Pool) domain.Profile {
	t.Helper()

	p := SeedProfile(t, pool)
	name, sex, why := "Ada "+uniqueSuffix(), "female", "to have energy for my kids"
	wake, start, end, training := "05:45", "09:00", "17:30", "evening"
	p.FullName, p.BiologicalSex, p.Why = &name, &sex, &why
	p.WakeTime, p.WorkStart, p.WorkEnd, p.TrainingPreference = &wake, &start, &end, &training
	p.Personas = []string{"athlete", "entrepreneur"}
	p.Goals = []string{"sleep 8h", "run a 10k"}
	p.Currency = "EUR"

	_, err := pool.Exec(context.Background(),
		`UPDATE profiles SET full_name = $2, biological_sex = $3, why = $4, wake_time = $5,
		        work_start = $6, work_end = $7, training_preference = $8, personas = $9,
		        goals = $10, currency = $11
		 WHERE id = $1`,
		p.ID, name, sex, why, wake, start, end, training, p.Personas, p.Goals, p.Currency,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFullProfile: %v", err)
	}

	return p
}

// SeedCheckin stores a check-in for the given day.
func SeedCheckin(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, day time.Time, energy, clarity, body int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO daily_checkins (user_id, date, energy, clarity, body) VALUES ($1, $2, $3, $4, $5)`,
		userID, day, energy, clarity, body,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCheckin: %v", err)
	}
}

// SeedDayPlan stores a hybrid day plan for the given day.
func SeedDayPlan(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, day time.Time, word string, completion int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO hybrid_day_plans (user_id, date, word, completion_percentage) VALUES ($1, $2, $3, $4)`,
		userID, day, word, completion,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDayPlan: %v", err)
	}
}

// SeedHabitCompletions creates one habit and marks it completed on each day.
func SeedHabitCompletions(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, days ...time.Time) {
	t.Helper()
	ctx := context.Background()

	var habitID uuid.UUID
	err := pool.QueryRow(ctx,
		`INSERT INTO habits (user_id, name) VALUES ($1, $2) RETURNING id`,
		userID, "habit-"+uniqueSuffix(),
	).Scan(&habitID)
	if err != nil {
		t.Fatalf("testhelper: SeedHabitCompletions habit: %v", err)
	}

	for _, d := range days {
		_, err := pool.Exec(ctx,
			`INSERT INTO habit_completions (habit_id, user_id, date) VALUES ($1, $2, $3)`,
			habitID, userID, d,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedHabitCompletions completion: %v", err)
		}
	}
}

// SeedSaving stores a savings entry. amount is a numeric literal such as "12.50".
func SeedSaving(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, day time.Time, amount string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO savings_entries (user_id, amount, date) VALUES ($1, $2::numeric, $3)`,
		userID, amount, day,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSaving: %v", err)
	}
}

// SeedSpending stores a spending entry.
func SeedSpending(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, day time.Time, amount string, wellness bool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO spending_entries (user_id, amount, is_wellness, date) VALUES ($1, $2::numeric, $3, $4)`,
		userID, amount, wellness, day,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSpending: %v", err)
	}
}

// SeedConversation creates an empty conversation owned by userID.
func SeedConversation(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Conversation {
	t.Helper()

	title := domain.DefaultConversationTitle
	c := domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     &title,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO coach_conversations (id, user_id, title, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.UserID, title, c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedConversation: %v", err)
	}

	return c
}
