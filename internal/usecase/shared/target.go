// Package shared provides helpers used by several use cases.
package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Target is the item an edit addresses: one of the actor's own items or a
// copy the actor received. Exactly one of Owned and Received is set.
type Target struct {
	Owned    *domain.Item
	Received *domain.ReceivedItem
}

// IsReceived reports whether the target is a received copy.
func (t Target) IsReceived() bool {
	return t.Received != nil
}

// Item returns the item data of either variant.
func (t Target) Item() *domain.Item {
	if t.Received != nil {
		return &t.Received.Data
	}
	return t.Owned
}

// ResolveTarget looks ref.ID up among the actor's received copies first,
// then among the actor's own items. sharing may be nil in local mode.
func ResolveTarget(ctx context.Context, items domain.ItemRepository, sharing domain.SharingStore, actor string, ref domain.ItemRef) (Target, error) {
	if sharing != nil && actor != "" {
		r, err := sharing.Received().Get(ctx, actor, ref.ID)
		switch {
		case err == nil:
			return Target{Received: r}, nil
		case !errors.Is(err, domain.ErrReceivedNotFound):
			return Target{}, fmt.Errorf("get received item: %w", err)
		}
	}

	it, err := GetItem(ctx, items, ref)
	if err != nil {
		return Target{}, err
	}
	return Target{Owned: it}, nil
}

// GetItem retrieves an owned item, trying both kinds when ref.Kind is empty.
func GetItem(ctx context.Context, items domain.ItemRepository, ref domain.ItemRef) (*domain.Item, error) {
	kinds := []domain.Kind{ref.Kind}
	if ref.Kind == "" {
		kinds = domain.AllKinds()
	}
	for _, k := range kinds {
		it, err := items.Get(ctx, domain.ItemRef{Kind: k, ID: ref.ID})
		if err == nil {
			return it, nil
		}
		if !errors.Is(err, domain.ErrItemNotFound) {
			return nil, fmt.Errorf("get item: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, ref.ID)
}
