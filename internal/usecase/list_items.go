package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ListItemsInput contains the parameters for listing items.
type ListItemsInput struct {
	Kind   domain.Kind   // Only this kind (empty = both)
	Status domain.Status // Only this view-state (empty = all)
}

// ListItemsOutput is the board: each kind's items partitioned by view-state
// at the time of the call, newest first.
type ListItemsOutput struct {
	Tasks   domain.View
	Letters domain.View
}

// View returns the partition of kind.
func (o *ListItemsOutput) View(kind domain.Kind) domain.View {
	if kind == domain.KindLetter {
		return o.Letters
	}
	return o.Tasks
}

// ListItems is the use case for reading the board.
type ListItems struct {
	persist domain.Persistence
	clock   domain.Clock
}

// NewListItems creates a new ListItems use case.
func NewListItems(persist domain.Persistence, clock domain.Clock) *ListItems {
	return &ListItems{persist: persist, clock: clock}
}

// Execute lists and classifies items. The classification is recomputed on
// every call from the stored reminder and completion fields.
func (uc *ListItems) Execute(ctx context.Context, in ListItemsInput) (*ListItemsOutput, error) {
	kinds := domain.AllKinds()
	if in.Kind != "" {
		if !in.Kind.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, in.Kind)
		}
		kinds = []domain.Kind{in.Kind}
	}

	now := uc.clock.Now()
	out := &ListItemsOutput{}
	for _, kind := range kinds {
		items, err := uc.persist.Items().List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %ss: %w", kind, err)
		}
		domain.SortNewestFirst(items)
		view := filterView(domain.Reclassify(items, now), in.Status)
		if kind == domain.KindLetter {
			out.Letters = view
		} else {
			out.Tasks = view
		}
	}
	return out, nil
}

func filterView(v domain.View, status domain.Status) domain.View {
	switch status {
	case domain.StatusActive:
		return domain.View{Active: v.Active}
	case domain.StatusExpired:
		return domain.View{Expired: v.Expired}
	case domain.StatusCompleted:
		return domain.View{Completed: v.Completed}
	default:
		return v
	}
}
