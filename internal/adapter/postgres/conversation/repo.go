// Package conversation implements the coach conversation repository using PostgreSQL.
package conversation

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

// Repo provides coach conversation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new conversation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const conversationColumns = `id, user_id, title, summary, key_insights, is_active, is_pinned,
	message_count, last_message_at, created_at`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getByIDSQL = `SELECT ` + conversationColumns + `
FROM coach_conversations
WHERE id = $1 AND user_id = $2`

// GetByID returns a conversation owned by userID.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id, userID)

	c, err := scanConversation(row)
	if err != nil {
		return nil, postgres.MapError(err, "coach_conversation", id)
	}
	return c, nil
}

// List returns the user's conversations, most recently active first.
// Conversations that never received a message sort by creation time after
// active ones.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error) {
	sql, args, err := postgres.Builder().
		Select(conversationColumns).
		From("coach_conversations").
		Where("user_id = ?", userID).
		OrderBy("is_pinned DESC", "last_message_at DESC NULLS LAST", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list coach_conversations: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list coach_conversations: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Conversation, 0, limit)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coach_conversation: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list coach_conversations: %w", err)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO coach_conversations (id, user_id, title, created_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + conversationColumns

// Create inserts a new conversation and returns the persisted row. A zero
// id or creation time is filled in.
func (r *Repo) Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error) {
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		id, c.UserID, c.Title, createdAt,
	)

	created, err := scanConversation(row)
	if err != nil {
		return nil, postgres.MapError(err, "coach_conversation", id)
	}
	return created, nil
}

// last_message_at never moves backwards, so concurrent turns keep it monotonic.
const touchSQL = `
UPDATE coach_conversations
SET message_count   = message_count + 1,
    last_message_at = GREATEST(COALESCE(last_message_at, $2), $2)
WHERE id = $1
RETURNING ` + conversationColumns

// Touch records one more message at the given time.
func (r *Repo) Touch(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Conversation, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, touchSQL, id, at)

	c, err := scanConversation(row)
	if err != nil {
		return nil, postgres.MapError(err, "coach_conversation", id)
	}
	return c, nil
}

const deleteSQL = `DELETE FROM coach_conversations WHERE id = $1 AND user_id = $2`

// Delete removes a conversation and, by cascade, its messages.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deleteSQL, id, userID)
	if err != nil {
		return postgres.MapError(err, "coach_conversation", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("coach_conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Summary, &c.KeyInsights, &c.IsActive, &c.IsPinned,
		&c.MessageCount, &c.LastMessageAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
