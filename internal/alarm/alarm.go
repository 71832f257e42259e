// Package alarm announces reminders once their trigger time has passed.
package alarm

import (
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"nova/internal/storage"
)

const DefaultSchedule = "@every 30s"

type ReminderLister interface {
	ListReminders(ctx context.Context) ([]storage.Reminder, error)
}

// Watcher fires each reminder due after the watcher was created exactly
// once. Reminders already overdue at creation are left alone.
type Watcher struct {
	Schedule string
	Now      func() time.Time

	store  ReminderLister
	notify func(storage.Reminder)

	mu    sync.Mutex
	since int64
	fired map[int64]bool
}

func New(store ReminderLister, notify func(storage.Reminder)) *Watcher {
	w := &Watcher{
		Schedule: DefaultSchedule,
		Now:      time.Now,
		store:    store,
		notify:   notify,
		fired:    make(map[int64]bool),
	}
	w.since = w.Now().Unix()
	return w
}

// Check fires every reminder that became due since the previous calls and
// returns how many it fired.
func (w *Watcher) Check(ctx context.Context) (int, error) {
	list, err := w.store.ListReminders(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminders: %w", err)
	}

	w.mu.Lock()
	now := w.Now().Unix()
	var due []storage.Reminder
	for _, r := range list {
		if r.WhenTS <= w.since || r.WhenTS > now || w.fired[r.ID] {
			continue
		}
		w.fired[r.ID] = true
		due = append(due, r)
	}
	w.mu.Unlock()

	for _, r := range due {
		log.Info("Reminder due", "id", r.ID, "what", r.What)
		w.notify(r)
	}
	return len(due), nil
}

// Run checks on Schedule until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(w.Schedule, func() {
		if _, err := w.Check(ctx); err != nil {
			log.Warn("Reminder check failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", w.Schedule, err)
	}

	c.Start()
	log.Debug("Alarm watcher started", "schedule", w.Schedule)
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
