package domain

import (
	"fmt"
	"sort"
	"time"
)

// Status is the derived view-state of an item. It is never persisted.
type Status string

const (
	StatusActive    Status = "active"    // Not done, reminder absent or in the future
	StatusExpired   Status = "expired"   // Not done, reminder in the past
	StatusCompleted Status = "completed" // Done
)

// AllStatuses returns all view-states in display order.
func AllStatuses() []Status {
	return []Status{StatusActive, StatusExpired, StatusCompleted}
}

// Display returns a human-readable status name.
func (s Status) Display() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// IsExpired reports whether the item is overdue at now.
// Done items are never expired; items without a reminder never expire.
func (it *Item) IsExpired(now time.Time) bool {
	return !it.IsDone && it.Reminder != nil && it.Reminder.Before(now)
}

// StatusAt classifies the item at now.
func (it *Item) StatusAt(now time.Time) Status {
	switch {
	case it.IsDone:
		return StatusCompleted
	case it.IsExpired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// View holds one kind's items partitioned by status.
type View struct {
	Active    []*Item `json:"active"`
	Expired   []*Item `json:"expired"`
	Completed []*Item `json:"completed"`
}

// Len returns the total number of items in the view.
func (v View) Len() int {
	return len(v.Active) + len(v.Expired) + len(v.Completed)
}

// Reclassify partitions items by their status at now.
// Every input item lands in exactly one partition. Input order is kept.
func Reclassify(items []*Item, now time.Time) View {
	var v View
	for _, it := range items {
		switch it.StatusAt(now) {
		case StatusCompleted:
			v.Completed = append(v.Completed, it)
		case StatusExpired:
			v.Expired = append(v.Expired, it)
		default:
			v.Active = append(v.Active, it)
		}
	}
	return v
}

// SortNewestFirst orders items by creation time, newest first.
func SortNewestFirst(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// CleanUpCategory selects items for bulk removal.
type CleanUpCategory string

const (
	CleanCompletedTasks   CleanUpCategory = "completedTasks"
	CleanCompletedLetters CleanUpCategory = "completedLetters"
	CleanExpiredTasks     CleanUpCategory = "expiredTasks"
	CleanExpiredLetters   CleanUpCategory = "expiredLetters"
)

// AllCleanUpCategories returns every clean-up category.
func AllCleanUpCategories() []CleanUpCategory {
	return []CleanUpCategory{CleanCompletedTasks, CleanCompletedLetters, CleanExpiredTasks, CleanExpiredLetters}
}

// ParseCleanUpCategory parses a category name.
func ParseCleanUpCategory(s string) (CleanUpCategory, error) {
	for _, c := range AllCleanUpCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Kind returns the item kind the category applies to.
func (c CleanUpCategory) Kind() Kind {
	if c == CleanCompletedLetters || c == CleanExpiredLetters {
		return KindLetter
	}
	return KindTask
}

// Status returns the view-state the category removes.
func (c CleanUpCategory) Status() Status {
	if c == CleanExpiredTasks || c == CleanExpiredLetters {
		return StatusExpired
	}
	return StatusCompleted
}
