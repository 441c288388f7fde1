// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// CreateItemInput contains the parameters for creating a task or letter.
// Fields are ordered to minimize memory padding.
type CreateItemInput struct {
	Reminder       *time.Time     // Explicit reminder (nil = computed)
	StartTime      *time.Time     // As-of time (nil = now)
	Letter         *domain.Letter // Letter fields (letters only)
	Kind           domain.Kind    // Item kind (required)
	Name           string         // Name (required)
	Detail         string         // Detail text
	FurtherDetails string         // Further details text
	Priority       int            // 1-10 (0 = default)
	IsUrgent       bool           // Urgent flag
	// ForceUrgentDeadline makes the urgent deadline replace an explicit
	// Reminder, which is then kept in originalReminder.
	ForceUrgentDeadline bool
}

// CreateItemOutput contains the result of creating an item.
type CreateItemOutput struct {
	Item *domain.Item
}

// CreateItem is the use case for creating a task or letter.
type CreateItem struct {
	persist domain.Persistence
	clock   domain.Clock
	logger  domain.Logger
	owner   string
}

// NewCreateItem creates a new CreateItem use case.
// owner is the signed-in user and may be empty in local mode.
func NewCreateItem(persist domain.Persistence, owner string, clock domain.Clock, logger domain.Logger) *CreateItem {
	return &CreateItem{
		persist: persist,
		owner:   owner,
		clock:   clock,
		logger:  logger,
	}
}

// Execute creates the item. The reminder is the explicit one, else the
// urgent deadline for urgent items, else the default working-day reminder.
func (uc *CreateItem) Execute(ctx context.Context, in CreateItemInput) (*CreateItemOutput, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, in.Kind)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrEmptyName
	}
	priority := in.Priority
	if priority == 0 {
		priority = domain.DefaultPriority
	}
	if err := domain.ValidatePriority(priority); err != nil {
		return nil, err
	}

	items := uc.persist.Items()
	existing, err := items.List(ctx, in.Kind)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	now := uc.clock.Now()
	item := &domain.Item{
		Kind:           in.Kind,
		Number:         domain.NextNumber(existing),
		OwnerID:        uc.owner,
		Name:           in.Name,
		Detail:         in.Detail,
		FurtherDetails: in.FurtherDetails,
		Priority:       priority,
		IsUrgent:       in.IsUrgent,
		CreatedAt:      now,
		UpdatedAt:      now,
		StartTime:      now,
	}
	if in.StartTime != nil {
		item.StartTime = *in.StartTime
	}
	if in.Kind == domain.KindLetter {
		item.Letter = &domain.Letter{}
		if in.Letter != nil {
			*item.Letter = *in.Letter
		}
	}
	item.ApplyDefaults(now)
	item.Reminder, item.OriginalReminder = initialReminder(in, now)

	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := items.Create(ctx, item); err != nil {
		if uc.logger != nil {
			uc.logger.Error("item", fmt.Sprintf("create %s: %v", in.Kind, err))
		}
		return nil, fmt.Errorf("create %s: %w", in.Kind, err)
	}

	if uc.logger != nil {
		uc.logger.Info("item", fmt.Sprintf("created %s #%d %s: %q", item.Kind, item.Number, item.ID, item.Name))
	}
	return &CreateItemOutput{Item: item}, nil
}

// initialReminder returns the reminder and original reminder for a new item.
func initialReminder(in CreateItemInput, now time.Time) (reminder, original *time.Time) {
	switch {
	case in.IsUrgent && (in.Reminder == nil || in.ForceUrgentDeadline):
		return domain.TimePtr(domain.UrgentReminder(now)), in.Reminder
	case in.Reminder != nil:
		return domain.TimePtr(*in.Reminder), nil
	default:
		return domain.TimePtr(domain.DefaultReminder(now)), nil
	}
}
