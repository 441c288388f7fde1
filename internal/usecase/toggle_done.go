package usecase

import (
	"context"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// ToggleDoneInput contains the parameters for flipping an item's completion.
type ToggleDoneInput struct {
	CompletedAt *time.Time     // Completion date when completing (nil = now)
	Ref         domain.ItemRef // Item to toggle; Kind may be empty
}

// ToggleDoneOutput contains the result of toggling completion.
type ToggleDoneOutput struct {
	Item     *domain.Item
	Received bool
}

// ToggleDone is the use case for completing and reactivating items.
// A received copy is toggled through the fan-out path.
type ToggleDone struct {
	persist domain.Persistence
	sharing domain.SharingStore
	update  *UpdateItem
	clock   domain.Clock
	actor   string
}

// NewToggleDone creates a new ToggleDone use case.
func NewToggleDone(persist domain.Persistence, sharing domain.SharingStore, update *UpdateItem, actor string, clock domain.Clock) *ToggleDone {
	return &ToggleDone{
		persist: persist,
		sharing: sharing,
		update:  update,
		actor:   actor,
		clock:   clock,
	}
}

// Execute flips isDone. Completing stamps completedAt with the given date or
// now; reactivating clears it.
func (uc *ToggleDone) Execute(ctx context.Context, in ToggleDoneInput) (*ToggleDoneOutput, error) {
	target, err := shared.ResolveTarget(ctx, uc.persist.Items(), uc.sharing, uc.actor, in.Ref)
	if err != nil {
		return nil, err
	}

	done := !target.Item().IsDone
	var completedAt *time.Time
	if done {
		completedAt = in.CompletedAt
		if completedAt == nil {
			completedAt = domain.TimePtr(uc.clock.Now())
		}
	}

	ref := target.Item().Ref()
	if target.IsReceived() {
		ref = domain.ItemRef{ID: target.Received.ID}
	}
	out, err := uc.update.Execute(ctx, UpdateItemInput{
		Ref: ref,
		Updates: []domain.FieldUpdate{
			{Field: domain.FieldDone, Value: done},
			{Field: domain.FieldCompletedAt, Value: completedAt},
		},
	})
	if err != nil {
		return nil, err
	}
	return &ToggleDoneOutput{Item: out.Item, Received: out.Received}, nil
}
