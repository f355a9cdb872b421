// Package sqlite implements docchat.HistoryStore using pure-Go SQLite.
// Zero CGO required.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	docchat "github.com/nevindra/docchat"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a SQLite Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store. When set, the store
// emits debug logs for every operation including timing and row counts.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// Store implements docchat.HistoryStore backed by a local SQLite file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ docchat.HistoryStore = (*Store)(nil)

// New creates a Store using a local SQLite file at dbPath.
// It opens a single shared connection pool with SetMaxOpenConns(1) so that
// all goroutines serialize through one connection, eliminating SQLITE_BUSY
// errors caused by concurrent writers opening independent connections.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("sqlite: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("sqlite: store opened", "path", dbPath)
	return s
}

// Init creates the messages table and its session index.
func (s *Store) Init(ctx context.Context) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id)`)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.logger.Debug("sqlite: init ok", "duration", time.Since(start))
	return nil
}

// AppendMessage inserts or replaces a message.
func (s *Store) AppendMessage(ctx context.Context, msg docchat.Message) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	s.logger.Debug("sqlite: append message ok", "id", msg.ID, "session_id", msg.SessionID, "role", msg.Role, "duration", time.Since(start))
	return nil
}

// Messages returns up to limit most recent messages for a session in
// chronological order (oldest first). limit <= 0 means no limit.
func (s *Store) Messages(ctx context.Context, sessionID string, limit int) ([]docchat.Message, error) {
	start := time.Now()
	if limit <= 0 {
		limit = -1
	}

	// Fetch newest-first with the limit, then reverse into chronological order.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM messages
		 WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		sessionID, limit)
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

	s.logger.Debug("sqlite: messages ok", "session_id", sessionID, "count", len(msgs), "duration", time.Since(start))
	return msgs, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
