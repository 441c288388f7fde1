package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// UpdateItemInput contains the parameters for editing an item.
type UpdateItemInput struct {
	Ref     domain.ItemRef       // Item to edit; Kind may be empty
	Updates []domain.FieldUpdate // Field patches (required)
}

// UpdateItemOutput contains the result of editing an item.
// Fields are ordered to minimize memory padding.
type UpdateItemOutput struct {
	Item           *domain.Item
	FanOutFailures int  // Recipients whose copy could not be updated
	Received       bool // The edit targeted a received copy
}

// UpdateItem is the use case for field-level edits. Edits addressed to a
// received copy are handed to UpdateReceivedItem; edits to an owned item are
// saved and then broadcast to the item's recipients.
type UpdateItem struct {
	persist     domain.Persistence
	sharing     domain.SharingStore
	notified    domain.NotifiedStore
	received    *UpdateReceivedItem
	broadcaster *shared.Broadcaster
	clock       domain.Clock
	logger      domain.Logger
	actor       string
}

// NewUpdateItem creates a new UpdateItem use case. sharing is nil in local mode.
func NewUpdateItem(persist domain.Persistence, sharing domain.SharingStore, notified domain.NotifiedStore, actor string, clock domain.Clock, logger domain.Logger) *UpdateItem {
	uc := &UpdateItem{
		persist:  persist,
		sharing:  sharing,
		notified: notified,
		received: NewUpdateReceivedItem(sharing, actor, clock, logger),
		actor:    actor,
		clock:    clock,
		logger:   logger,
	}
	if sharing != nil {
		uc.broadcaster = shared.NewBroadcaster(sharing, logger)
	}
	return uc
}

// Execute applies the updates. Clearing the reminder of an owned item
// restores the default reminder computed from its start time.
func (uc *UpdateItem) Execute(ctx context.Context, in UpdateItemInput) (*UpdateItemOutput, error) {
	if len(in.Updates) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	items := uc.persist.Items()
	target, err := shared.ResolveTarget(ctx, items, uc.sharing, uc.actor, in.Ref)
	if err != nil {
		return nil, err
	}

	if target.IsReceived() {
		out, err := uc.received.Execute(ctx, UpdateReceivedItemInput{ID: target.Received.ID, Updates: in.Updates})
		if err != nil {
			return nil, err
		}
		return &UpdateItemOutput{Item: &out.Received.Data, Received: true, FanOutFailures: out.FanOutFailures}, nil
	}

	it := target.Owned
	prevReminder := it.Reminder
	updates := make([]domain.FieldUpdate, len(in.Updates))
	for i, u := range in.Updates {
		if u.Field == domain.FieldReminder && shared.IsNilTime(u.Value) {
			u.Value = domain.TimePtr(domain.DefaultReminder(it.StartTime))
		}
		if err := it.Apply(u); err != nil {
			return nil, err
		}
		updates[i] = u
	}

	now := uc.clock.Now()
	it.UpdatedAt = now
	if err := items.Save(ctx, it); err != nil {
		if uc.logger != nil {
			uc.logger.Error("item", fmt.Sprintf("save %s: %v", it.Ref(), err))
		}
		return nil, fmt.Errorf("save item: %w", err)
	}
	shared.ClearReminderMark(uc.notified, uc.logger, it.Kind, it.ID, prevReminder, it.Reminder)

	out := &UpdateItemOutput{Item: it}
	if uc.broadcaster != nil && it.SharedCount > 0 {
		out.FanOutFailures = uc.broadcaster.ToRecipients(ctx, uc.actor, it.Ref(), uc.actor, updates, now)
	}

	if uc.logger != nil {
		uc.logger.Info("item", fmt.Sprintf("updated %s (%s)", it.Ref(), fieldList(updates)))
	}
	return out, nil
}
