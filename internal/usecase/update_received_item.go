package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// UpdateReceivedItemInput contains the parameters for editing a received copy.
type UpdateReceivedItemInput struct {
	ID      string               // Received item ID (required)
	Updates []domain.FieldUpdate // Field patches (required)
}

// UpdateReceivedItemOutput contains the result of editing a received copy.
// Fields are ordered to minimize memory padding.
type UpdateReceivedItemOutput struct {
	Received       *domain.ReceivedItem
	FanOutFailures int  // Other recipients and sibling copies that could not be updated
	OwnerUpdated   bool // Whether the owner's original accepted the patch
}

// UpdateReceivedItem applies an edit to the actor's received copy and
// broadcasts it to the owner's original and every other recipient.
type UpdateReceivedItem struct {
	sharing     domain.SharingStore
	broadcaster *shared.Broadcaster
	clock       domain.Clock
	logger      domain.Logger
	actor       string
}

// NewUpdateReceivedItem creates a new UpdateReceivedItem use case.
// sharing is nil in local mode.
func NewUpdateReceivedItem(sharing domain.SharingStore, actor string, clock domain.Clock, logger domain.Logger) *UpdateReceivedItem {
	uc := &UpdateReceivedItem{
		sharing: sharing,
		actor:   actor,
		clock:   clock,
		logger:  logger,
	}
	if sharing != nil {
		uc.broadcaster = shared.NewBroadcaster(sharing, logger)
	}
	return uc
}

// Execute patches the actor's copy first. Only that write can fail the call;
// the owner and other recipients are updated best effort.
func (uc *UpdateReceivedItem) Execute(ctx context.Context, in UpdateReceivedItemInput) (*UpdateReceivedItemOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	if len(in.Updates) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	received := uc.sharing.Received()
	r, err := received.Get(ctx, uc.actor, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get received item: %w", err)
	}

	for _, u := range in.Updates {
		if err := r.Data.Apply(u); err != nil {
			return nil, err
		}
	}
	now := uc.clock.Now()
	r.Data.UpdatedAt = now
	if err := received.Save(ctx, uc.actor, r); err != nil {
		uc.logError(fmt.Sprintf("save received %s: %v", r.ID, err))
		return nil, fmt.Errorf("save received item: %w", err)
	}

	out := &UpdateReceivedItemOutput{Received: r}
	owner := r.OwnerUID()
	ref := r.OriginalRef()

	if owner != uc.actor {
		if err := uc.broadcaster.ToOwner(ctx, owner, ref, in.Updates, now); err != nil {
			uc.logWarn(fmt.Sprintf("update original %s of %s: %v", ref, owner, err))
		} else {
			out.OwnerUpdated = true
		}
	}
	out.FanOutFailures = uc.broadcaster.ToRecipients(ctx, owner, ref, uc.actor, in.Updates, now)
	out.FanOutFailures += uc.broadcaster.ToSiblings(ctx, owner, ref, uc.actor, r.ID, in.Updates, now)

	if uc.logger != nil {
		uc.logger.Info("share", fmt.Sprintf("updated received %s (%s)", r.ID, fieldList(in.Updates)))
	}
	return out, nil
}

func (uc *UpdateReceivedItem) logWarn(msg string) {
	if uc.logger != nil {
		uc.logger.Warn("share", msg)
	}
}

func (uc *UpdateReceivedItem) logError(msg string) {
	if uc.logger != nil {
		uc.logger.Error("share", msg)
	}
}

// fieldList joins the patched field names for log lines.
func fieldList(updates []domain.FieldUpdate) string {
	s := ""
	for i, u := range updates {
		if i > 0 {
			s += ","
		}
		s += string(u.Field)
	}
	return s
}
