package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
)

func TestClearReminderMark(t *testing.T) {
	prev := time.Date(2024, 6, 9, 9, 0, 0, 0, time.UTC)
	next := prev.Add(time.Hour)
	key := domain.NotificationKey(domain.KindTask, "t-1", prev)

	tests := []struct {
		prev, next *time.Time
		name       string
		wantKept   bool
	}{
		{name: "changed", prev: &prev, next: &next, wantKept: false},
		{name: "cleared", prev: &prev, next: nil, wantKept: false},
		{name: "unchanged", prev: &prev, next: &prev, wantKept: true},
		{name: "no previous", prev: nil, next: &next, wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := testutil.NewMockPrefs()
			prefs.Notified[key] = true

			ClearReminderMark(prefs, nil, domain.KindTask, "t-1", tt.prev, tt.next)

			assert.Equal(t, tt.wantKept, prefs.Notified[key])
		})
	}
}

func TestIsNilTime(t *testing.T) {
	now := time.Now()
	assert.True(t, IsNilTime(nil))
	assert.True(t, IsNilTime((*time.Time)(nil)))
	assert.False(t, IsNilTime(&now))
	assert.False(t, IsNilTime("none"))
}
