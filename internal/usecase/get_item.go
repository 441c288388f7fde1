package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// GetItemInput contains the parameters for looking an item up.
type GetItemInput struct {
	Ref domain.ItemRef // Kind may be empty to search both kinds
}

// GetItemOutput contains the item and, for shared owned items, its recipients.
// Fields are ordered to minimize memory padding.
type GetItemOutput struct {
	Item     *domain.Item
	Received *domain.ReceivedItem // Set when the ID names a received copy
	Shares   []domain.ShareRecord
	Status   domain.Status
}

// GetItem is the use case for showing one item.
type GetItem struct {
	persist domain.Persistence
	sharing domain.SharingStore
	clock   domain.Clock
	actor   string
}

// NewGetItem creates a new GetItem use case.
func NewGetItem(persist domain.Persistence, sharing domain.SharingStore, actor string, clock domain.Clock) *GetItem {
	return &GetItem{persist: persist, sharing: sharing, actor: actor, clock: clock}
}

// Execute finds the item among owned items of both kinds, then received copies.
func (uc *GetItem) Execute(ctx context.Context, in GetItemInput) (*GetItemOutput, error) {
	now := uc.clock.Now()

	it, err := shared.GetItem(ctx, uc.persist.Items(), in.Ref)
	switch {
	case err == nil:
		out := &GetItemOutput{Item: it, Status: it.StatusAt(now)}
		if uc.sharing != nil && it.SharedCount > 0 {
			shares, err := uc.sharing.Shares().List(ctx, uc.actor, it.Ref())
			if err != nil {
				return nil, fmt.Errorf("list shares: %w", err)
			}
			out.Shares = shares
		}
		return out, nil
	case !errors.Is(err, domain.ErrItemNotFound) || uc.sharing == nil:
		return nil, err
	}

	r, rerr := uc.sharing.Received().Get(ctx, uc.actor, in.Ref.ID)
	if rerr != nil {
		if errors.Is(rerr, domain.ErrReceivedNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get received item: %w", rerr)
	}
	return &GetItemOutput{Item: &r.Data, Received: r, Status: r.Data.StatusAt(now)}, nil
}
