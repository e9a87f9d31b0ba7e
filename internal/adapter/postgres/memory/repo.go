// Package memory implements the coach memory repository using PostgreSQL.
// Entries are unique per (user_id, category, key) and are deactivated rather
// than deleted.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/luminary-backend/internal/adapter/postgres"
	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// Repo provides coach memory persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new memory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const memoryColumns = `id, user_id, category, key, value, confidence, source_message_id,
	is_active, created_at, updated_at`

const upsertSQL = `
INSERT INTO coach_memories (id, user_id, category, key, value, source_message_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT ON CONSTRAINT ux_coach_memories_user_category_key DO UPDATE
SET value             = EXCLUDED.value,
    source_message_id = EXCLUDED.source_message_id,
    is_active         = true,
    updated_at        = now()
RETURNING ` + memoryColumns

// Upsert stores a candidate, overwriting the value of an existing entry with
// the same (user, category, key) and reactivating it.
func (r *Repo) Upsert(ctx context.Context, userID uuid.UUID, c domain.MemoryCandidate, sourceMessageID *uuid.UUID) (*domain.MemoryEntry, error) {
	id := uuid.New()
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, upsertSQL,
		id, userID, string(c.Category), c.Key, c.Value, sourceMessageID,
	)

	e, err := scanMemory(row)
	if err != nil {
		return nil, postgres.MapError(err, "coach_memory", id)
	}
	return e, nil
}

// ListActive returns up to limit active entries, most recently updated first.
func (r *Repo) ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.MemoryEntry, error) {
	sql, args, err := postgres.Builder().
		Select(memoryColumns).
		From("coach_memories").
		Where("user_id = ? AND is_active", userID).
		OrderBy("updated_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list coach_memories: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list coach_memories: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.MemoryEntry, 0, limit)
	for rows.Next() {
		e, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coach_memory: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list coach_memories: %w", err)
	}

	return result, nil
}

const deactivateStaleSQL = `
UPDATE coach_memories
SET is_active = false
WHERE is_active AND updated_at < $1`

// DeactivateStale deactivates entries not refreshed since before.
// Returns the number of entries affected.
func (r *Repo) DeactivateStale(ctx context.Context, before time.Time) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deactivateStaleSQL, before)
	if err != nil {
		return 0, fmt.Errorf("deactivate stale coach_memories: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanMemory(row pgx.Row) (*domain.MemoryEntry, error) {
	var (
		e        domain.MemoryEntry
		category string
		conf     float32
	)
	err := row.Scan(
		&e.ID, &e.UserID, &category, &e.Key, &e.Value, &conf, &e.SourceMessageID,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = domain.MemoryCategory(category)
	e.Confidence = float64(conf)
	return &e, nil
}
