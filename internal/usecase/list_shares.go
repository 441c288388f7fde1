package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// ListSharesInput contains the parameters for listing an item's recipients.
type ListSharesInput struct {
	Ref domain.ItemRef // Owned item; Kind may be empty
}

// ListSharesOutput contains an item's share records.
type ListSharesOutput struct {
	Item   *domain.Item
	Shares []domain.ShareRecord
}

// ListShares is the use case for listing who an owned item was shared with.
type ListShares struct {
	persist domain.Persistence
	sharing domain.SharingStore
	actor   string
}

// NewListShares creates a new ListShares use case.
func NewListShares(persist domain.Persistence, sharing domain.SharingStore, actor string) *ListShares {
	return &ListShares{persist: persist, sharing: sharing, actor: actor}
}

// Execute lists the share records, oldest first.
func (uc *ListShares) Execute(ctx context.Context, in ListSharesInput) (*ListSharesOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}

	it, err := shared.GetItem(ctx, uc.persist.Items(), in.Ref)
	if err != nil {
		return nil, err
	}
	records, err := uc.sharing.Shares().List(ctx, uc.actor, it.Ref())
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return &ListSharesOutput{Item: it, Shares: records}, nil
}
