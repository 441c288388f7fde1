package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// BulkDeleteInput contains the items to delete.
type BulkDeleteInput struct {
	Refs []domain.ItemRef
}

// BulkDeleteOutput contains the number of deleted items per kind.
type BulkDeleteOutput struct {
	Tasks   int
	Letters int
}

// BulkDelete is the use case for deleting many items at once.
// Items are partitioned by kind and each partition is removed in one batch.
type BulkDelete struct {
	persist domain.Persistence
	logger  domain.Logger
}

// NewBulkDelete creates a new BulkDelete use case.
func NewBulkDelete(persist domain.Persistence, logger domain.Logger) *BulkDelete {
	return &BulkDelete{persist: persist, logger: logger}
}

// Execute deletes the items.
func (uc *BulkDelete) Execute(ctx context.Context, in BulkDeleteInput) (*BulkDeleteOutput, error) {
	byKind := make(map[domain.Kind][]domain.ItemRef)
	for _, ref := range in.Refs {
		if !ref.Kind.IsValid() {
			return nil, fmt.Errorf("%w: %q for %s", domain.ErrInvalidKind, ref.Kind, ref.ID)
		}
		byKind[ref.Kind] = append(byKind[ref.Kind], ref)
	}

	items := uc.persist.Items()
	for _, kind := range domain.AllKinds() {
		refs := byKind[kind]
		if len(refs) == 0 {
			continue
		}
		if err := items.DeleteBatch(ctx, refs); err != nil {
			if uc.logger != nil {
				uc.logger.Error("item", fmt.Sprintf("bulk delete %d %ss: %v", len(refs), kind, err))
			}
			return nil, fmt.Errorf("delete %ss: %w", kind, err)
		}
	}

	out := &BulkDeleteOutput{Tasks: len(byKind[domain.KindTask]), Letters: len(byKind[domain.KindLetter])}
	if uc.logger != nil && len(in.Refs) > 0 {
		uc.logger.Info("item", fmt.Sprintf("bulk deleted %d tasks, %d letters", out.Tasks, out.Letters))
	}
	return out, nil
}
