package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// CleanUpInput selects the items to remove.
type CleanUpInput struct {
	Category domain.CleanUpCategory
}

// CleanUpOutput contains the number of removed items.
type CleanUpOutput struct {
	Deleted int
}

// CleanUp is the use case for removing every completed or expired item of one kind.
type CleanUp struct {
	persist domain.Persistence
	bulk    *BulkDelete
	clock   domain.Clock
}

// NewCleanUp creates a new CleanUp use case.
func NewCleanUp(persist domain.Persistence, clock domain.Clock, logger domain.Logger) *CleanUp {
	return &CleanUp{
		persist: persist,
		bulk:    NewBulkDelete(persist, logger),
		clock:   clock,
	}
}

// Execute removes the category's items as classified now.
func (uc *CleanUp) Execute(ctx context.Context, in CleanUpInput) (*CleanUpOutput, error) {
	if _, err := domain.ParseCleanUpCategory(string(in.Category)); err != nil {
		return nil, err
	}

	items, err := uc.persist.Items().List(ctx, in.Category.Kind())
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	now := uc.clock.Now()
	var refs []domain.ItemRef
	for _, it := range items {
		if it.StatusAt(now) == in.Category.Status() {
			refs = append(refs, it.Ref())
		}
	}
	if len(refs) == 0 {
		return &CleanUpOutput{}, nil
	}

	if _, err := uc.bulk.Execute(ctx, BulkDeleteInput{Refs: refs}); err != nil {
		return nil, err
	}
	return &CleanUpOutput{Deleted: len(refs)}, nil
}
