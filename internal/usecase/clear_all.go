package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ClearAllInput confirms the destructive operation.
type ClearAllInput struct {
	Confirm bool
}

// ClearAll is the use case for deleting every owned item and saved chat.
// Received copies are not touched.
type ClearAll struct {
	persist domain.Persistence
	logger  domain.Logger
}

// NewClearAll creates a new ClearAll use case.
func NewClearAll(persist domain.Persistence, logger domain.Logger) *ClearAll {
	return &ClearAll{persist: persist, logger: logger}
}

// Execute clears the data. Returns domain.ErrConfirmationRequired unless confirmed.
func (uc *ClearAll) Execute(ctx context.Context, in ClearAllInput) error {
	if !in.Confirm {
		return domain.ErrConfirmationRequired
	}
	if err := uc.persist.Items().ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if err := uc.persist.Chats().ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("clear chats: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("item", "cleared all data")
	}
	return nil
}
