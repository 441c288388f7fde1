package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// DeleteReceivedItemInput contains the parameters for discarding a received copy.
type DeleteReceivedItemInput struct {
	ID string // Received item ID (required)
}

// DeleteReceivedItem removes a copy from the actor's inbox. The owner's
// share record is left in place.
type DeleteReceivedItem struct {
	sharing domain.SharingStore
	logger  domain.Logger
	actor   string
}

// NewDeleteReceivedItem creates a new DeleteReceivedItem use case.
func NewDeleteReceivedItem(sharing domain.SharingStore, actor string, logger domain.Logger) *DeleteReceivedItem {
	return &DeleteReceivedItem{
		sharing: sharing,
		actor:   actor,
		logger:  logger,
	}
}

// Execute deletes the copy.
func (uc *DeleteReceivedItem) Execute(ctx context.Context, in DeleteReceivedItemInput) error {
	if uc.sharing == nil {
		return domain.ErrSharingUnavailable
	}

	received := uc.sharing.Received()
	r, err := received.Get(ctx, uc.actor, in.ID)
	if err != nil {
		return fmt.Errorf("get received item: %w", err)
	}
	if err := received.Delete(ctx, uc.actor, r.ID); err != nil {
		return fmt.Errorf("delete received item: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("share", fmt.Sprintf("deleted received %s from %s", r.ID, r.SenderName))
	}
	return nil
}
