package domain

import (
	"strconv"
	"time"
)

// Working-week calendar used by reminder computation.
// Friday and Saturday are rest days; Sunday through Thursday are working days.
const (
	defaultReminderWorkdays = 4
	workdayCutoffHour       = 17
	nextDayStartHour        = 8
	defaultReminderHour     = 9

	urgentCutoffHour   = 15
	urgentNextDayHour  = 8
	urgentNextDayMin   = 30
	urgentLeadDuration = 2 * time.Hour
)

// IsRestDay reports whether d is a weekend day in the working calendar.
func IsRestDay(d time.Weekday) bool {
	return d == time.Friday || d == time.Saturday
}

// IsWorkingDay reports whether d is Sunday through Thursday.
func IsWorkingDay(d time.Weekday) bool {
	return !IsRestDay(d)
}

// DefaultReminder returns the reminder assigned when the user gives none:
// 09:00 on the fourth working day after ref. A reference at or after 17:00
// counts from the next day. The result is always strictly after ref.
func DefaultReminder(ref time.Time) time.Time {
	cur := ref
	if cur.Hour() >= workdayCutoffHour {
		cur = atClock(cur.AddDate(0, 0, 1), nextDayStartHour, 0)
	}

	for left := defaultReminderWorkdays; left > 0; {
		cur = cur.AddDate(0, 0, 1)
		if IsWorkingDay(cur.Weekday()) {
			left--
		}
	}

	return atClock(cur, defaultReminderHour, 0)
}

// UrgentReminder returns the reminder for an item flagged urgent at now:
// two hours later, or 08:30 the next calendar day when now is at or after 15:00.
// The next-day result ignores the working calendar.
func UrgentReminder(now time.Time) time.Time {
	if now.Hour() >= urgentCutoffHour {
		return atClock(now.AddDate(0, 0, 1), urgentNextDayHour, urgentNextDayMin)
	}
	return now.Add(urgentLeadDuration)
}

// atClock returns t's calendar day at hh:mm:00.000 in t's location.
func atClock(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}

// NotificationKey identifies one (item, reminder instant) pair for de-duplication.
func NotificationKey(kind Kind, id string, reminder time.Time) string {
	return string(kind) + "-" + id + "-" + strconv.FormatInt(reminder.UnixMilli(), 10)
}
