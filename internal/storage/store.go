// Package storage persists reminders and saved notes.
package storage

import (
	"context"
	"path/filepath"
	"time"
)

type Reminder struct {
	ID        int64  `json:"id"`
	What      string `json:"what"`
	WhenTS    int64  `json:"when_ts"`
	CreatedTS int64  `json:"created_ts"`
}

// ReminderStore appends reminders and lists them by trigger time.
// Implementations are safe for concurrent use.
type ReminderStore interface {
	AddReminder(ctx context.Context, what string, whenTS int64) (Reminder, error)
	ListReminders(ctx context.Context) ([]Reminder, error)
	Close() error
}

type Options struct {
	UseSQLite  bool
	SQLitePath string
	DataDir    string
}

// Open picks the reminder backend and prepares the notes directory under
// DataDir/files.
func Open(opt Options) (ReminderStore, *Files, error) {
	files, err := NewFiles(filepath.Join(opt.DataDir, "files"))
	if err != nil {
		return nil, nil, err
	}

	if !opt.UseSQLite {
		return NewMemoryStore(), files, nil
	}

	path := opt.SQLitePath
	if path == "" {
		path = filepath.Join(opt.DataDir, "reminders.db")
	}
	store, err := NewSQLiteStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, files, nil
}

func nowUnix(now func() time.Time) int64 {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Unix()
}
