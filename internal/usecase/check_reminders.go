package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// CheckRemindersOutput contains the notifications raised by one scan.
type CheckRemindersOutput struct {
	Fired  []domain.ItemRef
	Failed int // Notifications the notifier rejected; they are not retried
}

// CheckReminders scans owned items for reminders that have passed and raises
// one notification per (item, reminder) pair. The pair's key is remembered,
// so a reminder fires again only after its value changes.
type CheckReminders struct {
	persist  domain.Persistence
	notified domain.NotifiedStore
	notifier domain.Notifier
	clock    domain.Clock
	logger   domain.Logger
	language string
}

// NewCheckReminders creates a new CheckReminders use case.
func NewCheckReminders(persist domain.Persistence, notified domain.NotifiedStore, notifier domain.Notifier, language string, clock domain.Clock, logger domain.Logger) *CheckReminders {
	return &CheckReminders{
		persist:  persist,
		notified: notified,
		notifier: notifier,
		language: language,
		clock:    clock,
		logger:   logger,
	}
}

// Execute runs one scan.
func (uc *CheckReminders) Execute(ctx context.Context) (*CheckRemindersOutput, error) {
	now := uc.clock.Now()
	out := &CheckRemindersOutput{}

	for _, kind := range domain.AllKinds() {
		items, err := uc.persist.Items().List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %ss: %w", kind, err)
		}
		for _, it := range items {
			if !it.IsExpired(now) {
				continue
			}
			key := domain.NotificationKey(it.Kind, it.ID, *it.Reminder)
			seen, err := uc.notified.HasNotified(key)
			if err != nil {
				return nil, fmt.Errorf("read notified markers: %w", err)
			}
			if seen {
				continue
			}

			// Marked first: a rejected notification is dropped, not retried.
			if err := uc.notified.MarkNotified(key); err != nil {
				return nil, fmt.Errorf("mark notified: %w", err)
			}
			title := domain.ReminderTitle(it.Kind, uc.language)
			if err := uc.notifier.Notify(title, domain.ReminderBody(it.Name, uc.language)); err != nil {
				out.Failed++
				if uc.logger != nil {
					uc.logger.Warn("notify", fmt.Sprintf("notify %s: %v", it.Ref(), err))
				}
				continue
			}
			out.Fired = append(out.Fired, it.Ref())
			if uc.logger != nil {
				uc.logger.Debug("notify", fmt.Sprintf("reminder fired for %s", it.Ref()))
			}
		}
	}
	return out, nil
}

// WatchRemindersInput contains the parameters for the reminder loop.
type WatchRemindersInput struct {
	Interval time.Duration // Poll interval (default: 15s)
}

// WatchReminders runs CheckReminders immediately and then on every tick
// until ctx is canceled. Scan errors are logged and the loop continues.
type WatchReminders struct {
	check  *CheckReminders
	logger domain.Logger
}

// NewWatchReminders creates a new WatchReminders use case.
func NewWatchReminders(check *CheckReminders, logger domain.Logger) *WatchReminders {
	return &WatchReminders{check: check, logger: logger}
}

// Execute blocks until ctx is done. Cancellation is a normal exit.
func (uc *WatchReminders) Execute(ctx context.Context, in WatchRemindersInput) error {
	if in.Interval <= 0 {
		in.Interval = domain.DefaultNotifyInterval
	}

	uc.scan(ctx)

	ticker := time.NewTicker(in.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			uc.scan(ctx)
		}
	}
}

func (uc *WatchReminders) scan(ctx context.Context) {
	if _, err := uc.check.Execute(ctx); err != nil && uc.logger != nil {
		uc.logger.Error("notify", err.Error())
	}
}
