package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_StatusAt(t *testing.T) {
	now := at(2024, time.March, 5, 12, 0)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		reminder *time.Time
		name     string
		want     Status
		done     bool
	}{
		{name: "no reminder", want: StatusActive},
		{name: "future reminder", reminder: &future, want: StatusActive},
		{name: "reminder equal to now", reminder: &now, want: StatusActive},
		{name: "past reminder", reminder: &past, want: StatusExpired},
		{name: "done with past reminder", reminder: &past, done: true, want: StatusCompleted},
		{name: "done without reminder", done: true, want: StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &Item{Kind: KindTask, Reminder: tt.reminder, IsDone: tt.done}
			assert.Equal(t, tt.want, it.StatusAt(now))
			assert.Equal(t, tt.want == StatusExpired, it.IsExpired(now))
		})
	}
}

func TestReclassify_PartitionsEveryItem(t *testing.T) {
	now := at(2024, time.March, 5, 12, 0)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	items := []*Item{
		{ID: "a", Reminder: &future},
		{ID: "b", Reminder: &past},
		{ID: "c", Reminder: &past, IsDone: true},
		{ID: "d"},
	}

	v := Reclassify(items, now)

	require.Equal(t, len(items), v.Len())
	assert.Equal(t, []*Item{items[0], items[3]}, v.Active)
	assert.Equal(t, []*Item{items[1]}, v.Expired)
	assert.Equal(t, []*Item{items[2]}, v.Completed)

	// Passing the reminder moves an item from active to expired.
	later := Reclassify(items, future.Add(time.Second))
	assert.Len(t, later.Expired, 2)
	assert.Len(t, later.Active, 1)
}

func TestSortNewestFirst(t *testing.T) {
	base := at(2024, time.March, 5, 12, 0)
	items := []*Item{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}

	SortNewestFirst(items)

	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestCleanUpCategory(t *testing.T) {
	c, err := ParseCleanUpCategory("expiredLetters")
	require.NoError(t, err)
	assert.Equal(t, KindLetter, c.Kind())
	assert.Equal(t, StatusExpired, c.Status())

	assert.Equal(t, KindTask, CleanCompletedTasks.Kind())
	assert.Equal(t, StatusCompleted, CleanCompletedTasks.Status())

	_, err = ParseCleanUpCategory("everything")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
