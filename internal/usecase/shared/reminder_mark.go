package shared

import (
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ClearReminderMark forgets the "already notified" marker of a reminder that
// is being replaced, so the new value can notify again. Errors are logged.
func ClearReminderMark(store domain.NotifiedStore, logger domain.Logger, kind domain.Kind, id string, prev, next *time.Time) {
	if store == nil || prev == nil {
		return
	}
	if next != nil && prev.Equal(*next) {
		return
	}
	if err := store.ClearNotified(domain.NotificationKey(kind, id, *prev)); err != nil && logger != nil {
		logger.Warn("notify", fmt.Sprintf("clear marker for %s/%s: %v", kind, id, err))
	}
}

// IsNilTime reports whether v clears a timestamp field.
func IsNilTime(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *time.Time:
		return t == nil
	}
	return false
}
