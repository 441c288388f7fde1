package usecase_test

import (
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
)

var ast = time.FixedZone("AST", 3*60*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, ast)
}

func clockAt(t time.Time) *testutil.MockClock {
	return &testutil.MockClock{NowTime: t}
}

// task returns a stored-looking task with a reminder.
func task(id, name string, reminder time.Time) *domain.Item {
	created := reminder.AddDate(0, 0, -7)
	return &domain.Item{
		Kind:         domain.KindTask,
		ID:           id,
		Name:         name,
		Priority:     domain.DefaultPriority,
		CreatedAt:    created,
		UpdatedAt:    created,
		StartTime:    created,
		Reminder:     domain.TimePtr(reminder),
		NameConfig:   domain.DefaultNameConfig(),
		DetailConfig: domain.DefaultFieldConfig(),
	}
}

// letter returns a stored-looking letter with a reminder.
func letter(id, name string, reminder time.Time) *domain.Item {
	it := task(id, name, reminder)
	it.Kind = domain.KindLetter
	it.Letter = &domain.Letter{LetterCode: "L-" + id, SentTo: "sentTo_hr", LetterType: "letterType_leave"}
	return it
}
