package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps reminders for the life of the process. Used when
// SQLite is switched off.
type MemoryStore struct {
	mu        sync.Mutex
	reminders []Reminder
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) AddReminder(_ context.Context, what string, whenTS int64) (Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := int64(1)
	if n := len(m.reminders); n > 0 {
		id = m.reminders[n-1].ID + 1
	}

	r := Reminder{ID: id, What: what, WhenTS: whenTS, CreatedTS: nowUnix(m.now)}
	m.reminders = append(m.reminders, r)
	return r, nil
}

func (m *MemoryStore) ListReminders(context.Context) ([]Reminder, error) {
	m.mu.Lock()
	out := append([]Reminder{}, m.reminders...)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].WhenTS < out[j].WhenTS })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
