package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS reminders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		what TEXT NOT NULL,
		when_ts INTEGER NOT NULL,
		created_ts INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reminders_when_ts ON reminders(when_ts);
	`)
	return err
}

func (s *SQLiteStore) AddReminder(ctx context.Context, what string, whenTS int64) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := nowUnix(s.now)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (what, when_ts, created_ts) VALUES (?, ?, ?)`,
		what, whenTS, created)
	if err != nil {
		return Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Reminder{}, fmt.Errorf("reminder id: %w", err)
	}

	return Reminder{ID: id, What: what, WhenTS: whenTS, CreatedTS: created}, nil
}

func (s *SQLiteStore) ListReminders(ctx context.Context) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, what, when_ts, created_ts FROM reminders ORDER BY when_ts ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	out := []Reminder{}
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.What, &r.WhenTS, &r.CreatedTS); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
