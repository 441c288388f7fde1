package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// UnshareItemInput contains the parameters for revoking a share.
type UnshareItemInput struct {
	Ref          domain.ItemRef // Owned item; Kind may be empty
	RecipientUID string         // Recipient to revoke (required)
}

// UnshareItemOutput contains the result of revoking a share.
type UnshareItemOutput struct {
	CopiesRemoved int
}

// UnshareItem removes a recipient's share record and copies and decrements
// the item's shared count, floored at zero.
type UnshareItem struct {
	persist domain.Persistence
	sharing domain.SharingStore
	clock   domain.Clock
	logger  domain.Logger
	actor   string
}

// NewUnshareItem creates a new UnshareItem use case.
func NewUnshareItem(persist domain.Persistence, sharing domain.SharingStore, actor string, clock domain.Clock, logger domain.Logger) *UnshareItem {
	return &UnshareItem{
		persist: persist,
		sharing: sharing,
		actor:   actor,
		clock:   clock,
		logger:  logger,
	}
}

// Execute revokes the share. Revoking a recipient that holds no record
// still removes stray copies and succeeds.
func (uc *UnshareItem) Execute(ctx context.Context, in UnshareItemInput) (*UnshareItemOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	if in.RecipientUID == "" {
		return nil, domain.ErrUserNotFound
	}

	items := uc.persist.Items()
	item, err := shared.GetItem(ctx, items, in.Ref)
	if err != nil {
		return nil, err
	}
	ref := item.Ref()

	shares := uc.sharing.Shares()
	received := uc.sharing.Received()

	prev, err := shares.Get(ctx, uc.actor, ref, in.RecipientUID)
	if err != nil && !errors.Is(err, domain.ErrShareNotFound) {
		return nil, fmt.Errorf("get share: %w", err)
	}
	copies, err := received.FindByOriginal(ctx, in.RecipientUID, ref.ID, uc.actor)
	if err != nil {
		return nil, fmt.Errorf("find copies: %w", err)
	}

	var removed []*domain.ReceivedItem
	saga := shared.NewSaga("unshare", uc.logger).
		Add(shared.Step{
			Name: "delete share record",
			Do:   func(ctx context.Context) error { return shares.Delete(ctx, uc.actor, ref, in.RecipientUID) },
			Undo: func(ctx context.Context) error {
				if prev == nil {
					return nil
				}
				return shares.Put(ctx, uc.actor, ref, *prev)
			},
		}).
		Add(shared.Step{
			Name: "delete received copies",
			Do: func(ctx context.Context) error {
				for _, c := range copies {
					if err := received.Delete(ctx, in.RecipientUID, c.ID); err != nil {
						return err
					}
					removed = append(removed, c)
				}
				return nil
			},
			Undo: func(ctx context.Context) error {
				var errs []error
				for _, c := range removed {
					errs = append(errs, received.Create(ctx, in.RecipientUID, c))
				}
				return errors.Join(errs...)
			},
		})
	if prev != nil {
		saga.Add(shared.Step{
			Name: "decrement shared count",
			Do: func(ctx context.Context) error {
				return adjustSharedCount(ctx, items, ref, -1, uc.clock.Now())
			},
		})
	}

	if err := saga.Run(ctx); err != nil {
		if uc.logger != nil {
			uc.logger.Error("share", fmt.Sprintf("unshare %s from %s: %v", ref, in.RecipientUID, err))
		}
		return nil, fmt.Errorf("unshare: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("share", fmt.Sprintf("unshared %s from %s (%d copies removed)", ref, in.RecipientUID, len(removed)))
	}
	return &UnshareItemOutput{CopiesRemoved: len(removed)}, nil
}
