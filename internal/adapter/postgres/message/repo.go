// Package message implements the coach message repository using PostgreSQL.
// Messages are immutable: there is no update operation.
package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/luminary-backend/internal/adapter/postgres"
	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// Repo provides coach message persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new message repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const messageColumns = `id, conversation_id, user_id, role, content, model, tokens_used,
	processing_time_ms, context_snapshot, created_at`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO coach_messages (id, conversation_id, user_id, role, content, model, tokens_used,
                            processing_time_ms, context_snapshot, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + messageColumns

// Create inserts a message and returns the persisted row. A zero id or
// creation time is filled in.
func (r *Repo) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var snapshot []byte
	if m.ContextSnapshot != nil {
		var err error
		snapshot, err = json.Marshal(m.ContextSnapshot)
		if err != nil {
			return nil, fmt.Errorf("marshal context snapshot: %w", err)
		}
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		id, m.ConversationID, m.UserID, string(m.Role), m.Content, m.Model, m.TokensUsed,
		m.ProcessingTimeMs, snapshot, createdAt,
	)

	created, err := scanMessage(row)
	if err != nil {
		return nil, postgres.MapError(err, "coach_message", id)
	}
	return created, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns messages of a conversation in chronological order.
func (r *Repo) List(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	sql, args, err := postgres.Builder().
		Select(messageColumns).
		From("coach_messages").
		Where("conversation_id = ?", conversationID).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list coach_messages: %w", err)
	}

	return r.query(ctx, sql, args...)
}

const listRecentSQL = `
SELECT * FROM (
    SELECT ` + messageColumns + `
    FROM coach_messages
    WHERE conversation_id = $1
    ORDER BY created_at DESC, id DESC
    LIMIT $2
) recent
ORDER BY created_at ASC, id ASC`

// ListRecent returns the last limit messages of a conversation, oldest first.
func (r *Repo) ListRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error) {
	return r.query(ctx, listRecentSQL, conversationID, limit)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]*domain.Message, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query coach_messages: %w", err)
	}
	defer rows.Close()

	var result []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coach_message: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query coach_messages: %w", err)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		m        domain.Message
		role     string
		snapshot []byte
	)
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.UserID, &role, &m.Content, &m.Model, &m.TokensUsed,
		&m.ProcessingTimeMs, &snapshot, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Role = domain.Role(role)
	if len(snapshot) > 0 {
		var s domain.ContextSnapshot
		if err := json.Unmarshal(snapshot, &s); err != nil {
			return nil, fmt.Errorf("unmarshal context snapshot: %w", err)
		}
		m.ContextSnapshot = &s
	}

	return &m, nil
}
