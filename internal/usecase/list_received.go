package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ListReceivedOutput contains the actor's received copies, newest share first.
type ListReceivedOutput struct {
	Items  []*domain.ReceivedItem
	Unseen int
}

// ListReceived is the use case for listing the actor's inbox.
type ListReceived struct {
	sharing domain.SharingStore
	actor   string
}

// NewListReceived creates a new ListReceived use case.
func NewListReceived(sharing domain.SharingStore, actor string) *ListReceived {
	return &ListReceived{sharing: sharing, actor: actor}
}

// Execute lists the received copies.
func (uc *ListReceived) Execute(ctx context.Context) (*ListReceivedOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}

	items, err := uc.sharing.Received().List(ctx, uc.actor)
	if err != nil {
		return nil, fmt.Errorf("list received items: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SharedAt.After(items[j].SharedAt)
	})

	out := &ListReceivedOutput{Items: items}
	for _, r := range items {
		if r.SeenAt == nil {
			out.Unseen++
		}
	}
	return out, nil
}
