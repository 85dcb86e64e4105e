// Package store persists insight-generation telemetry in SQLite: one event
// per handled request, recording which path served it. The web app's
// document store owns the actual financial data; this log exists so
// provider health and fallback rates can be inspected after the fact.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Event is one recorded insight generation.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Currency  string    `json:"currency"`
	Source    string    `json:"source"` // provider name, "rules" or "cache"
	Cached    bool      `json:"cached"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsightLog is a SQLite-backed event log.
type InsightLog struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewInsightLog opens (or creates) the log database at dbPath.
func NewInsightLog(dbPath string) (*InsightLog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	l := &InsightLog{db: db}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return l, nil
}

func (l *InsightLog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS insight_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		period_from TEXT NOT NULL,
		period_to TEXT NOT NULL,
		currency TEXT DEFAULT '',
		source TEXT NOT NULL,
		cached INTEGER DEFAULT 0,
		fallback INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_insight_events_user_id ON insight_events(user_id);
	CREATE INDEX IF NOT EXISTS idx_insight_events_created_at ON insight_events(created_at);
	`

	_, err := l.db.Exec(schema)
	return err
}

// Record stores one generation event. The ID and timestamp are assigned
// here.
func (l *InsightLog) Record(ctx context.Context, ev *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev.ID = uuid.New().String()
	ev.CreatedAt = time.Now()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO insight_events (id, user_id, period_from, period_to, currency, source, cached, fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.UserID, ev.From, ev.To, ev.Currency, ev.Source, ev.Cached, ev.Fallback, ev.CreatedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("failed to record insight event: %w", err)
	}
	return nil
}

// Recent returns the newest events for a user, most recent first.
func (l *InsightLog) Recent(ctx context.Context, userID string, limit int) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, user_id, period_from, period_to, currency, source, cached, fallback, created_at
		FROM insight_events
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var createdAtStr string
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.From, &ev.To, &ev.Currency, &ev.Source, &ev.Cached, &ev.Fallback, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan insight event: %w", err)
		}
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (l *InsightLog) Close() error {
	return l.db.Close()
}
