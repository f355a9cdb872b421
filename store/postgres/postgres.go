// Package postgres implements docchat.HistoryStore using PostgreSQL.
//
// The Store accepts an externally-owned *pgxpool.Pool via constructor
// injection. The caller creates and closes the pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	docchat "github.com/nevindra/docchat"
)

// Store implements docchat.HistoryStore backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ docchat.HistoryStore = (*Store)(nil)

// New creates a Store using an existing pgxpool.Pool.
// The caller owns the pool and is responsible for closing it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the messages table and its session index.
// Safe to call multiple times.
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS messages_session_idx ON messages(session_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	return nil
}

// AppendMessage inserts or replaces a message.
func (s *Store) AppendMessage(ctx context.Context, msg docchat.Message) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, session_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// Messages returns up to limit most recent messages for a session in
// chronological order (oldest first). limit <= 0 means no limit.
func (s *Store) Messages(ctx context.Context, sessionID string, limit int) ([]docchat.Message, error) {
	query := `SELECT id, session_id, role, content, created_at FROM messages
	          WHERE session_id = $1 ORDER BY created_at DESC, id DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []docchat.Message
	for rows.Next() {
		var m docchat.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Close is a no-op; the caller owns the pool.
func (s *Store) Close() error { return nil }
