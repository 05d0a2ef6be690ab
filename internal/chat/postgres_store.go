package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/healthguard/internal/safety"
)

// PostgresStore keeps chat turns in the chat_messages table.
type PostgresStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return newPostgresStore(db, nil)
}

func newPostgresStore(db *sql.DB, tracer trace.Tracer) *PostgresStore {
	if db == nil {
		panic("chat: sql db required")
	}
	if tracer == nil {
		tracer = otel.Tracer("healthguard.internal.chat.store")
	}
	return &PostgresStore{db: db, tracer: tracer}
}

// Append writes all messages in one transaction.
func (s *PostgresStore) Append(ctx context.Context, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "chat.store.append")
	defer span.End()
	span.SetAttributes(attribute.Int("chat.messages", len(messages)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("chat: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range messages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chat_messages (id, conversation_id, user_id, role, content, safety_result, flags, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, m.ID, m.ConversationID, m.UserID, m.Role, m.Content, string(m.SafetyResult), pq.Array(m.Flags), m.CreatedAt)
		if err != nil {
			return fmt.Errorf("chat: insert message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("chat: commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListConversation(ctx context.Context, userID, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	ctx, span := s.tracer.Start(ctx, "chat.store.list")
	defer span.End()
	span.SetAttributes(attribute.String("chat.conversation_id", conversationID))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, content, safety_result, flags, created_at
		FROM (
			SELECT id, conversation_id, user_id, role, content, safety_result, flags, created_at
			FROM chat_messages
			WHERE user_id = $1 AND conversation_id = $2
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC
	`, userID, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat: list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m      Message
			result string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role, &m.Content,
			&result, pq.Array(&m.Flags), &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("chat: scan message: %w", err)
		}
		m.SafetyResult = safety.Result(result)
		if m.Flags == nil {
			m.Flags = []string{}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat: list messages: %w", err)
	}
	return out, nil
}

var _ Store = (*PostgresStore)(nil)
