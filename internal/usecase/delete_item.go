package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// DeleteItemInput contains the parameters for deleting an item.
type DeleteItemInput struct {
	Ref domain.ItemRef // Item to delete; Kind may be empty
}

// DeleteItem is the use case for hard-deleting an owned item.
// Recipients keep their copies.
type DeleteItem struct {
	persist  domain.Persistence
	notified domain.NotifiedStore
	logger   domain.Logger
}

// NewDeleteItem creates a new DeleteItem use case.
func NewDeleteItem(persist domain.Persistence, notified domain.NotifiedStore, logger domain.Logger) *DeleteItem {
	return &DeleteItem{
		persist:  persist,
		notified: notified,
		logger:   logger,
	}
}

// Execute deletes the item.
func (uc *DeleteItem) Execute(ctx context.Context, in DeleteItemInput) error {
	items := uc.persist.Items()
	it, err := shared.GetItem(ctx, items, in.Ref)
	if err != nil {
		return err
	}

	if err := items.Delete(ctx, it.Ref()); err != nil {
		if uc.logger != nil {
			uc.logger.Error("item", fmt.Sprintf("delete %s: %v", it.Ref(), err))
		}
		return fmt.Errorf("delete item: %w", err)
	}
	shared.ClearReminderMark(uc.notified, uc.logger, it.Kind, it.ID, it.Reminder, nil)

	if uc.logger != nil {
		msg := fmt.Sprintf("deleted %s: %q", it.Ref(), it.Name)
		if it.SharedCount > 0 {
			msg += fmt.Sprintf(" (%d recipients keep their copies)", it.SharedCount)
		}
		uc.logger.Info("item", msg)
	}
	return nil
}
