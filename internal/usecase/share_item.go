package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase/shared"
)

// ShareItemInput contains the parameters for sharing an item.
// Fields are ordered to minimize memory padding.
type ShareItemInput struct {
	Ref       domain.ItemRef // Owned item to share; Kind may be empty
	ShareCode int            // Recipient's share code
	Force     bool           // Share again even if already shared
}

// ShareItemOutput contains the outcome of a share attempt.
type ShareItemOutput struct {
	Recipient *domain.Profile
	Received  *domain.ReceivedItem
	Result    domain.ShareResult
}

// ShareItem is the use case for sending a copy of an owned item to another
// user. The copy, the share record and the owner's shared count are written
// as a saga: when a later write fails, earlier ones are compensated.
type ShareItem struct {
	persist domain.Persistence
	sharing domain.SharingStore
	clock   domain.Clock
	logger  domain.Logger
	actor   string
}

// NewShareItem creates a new ShareItem use case.
func NewShareItem(persist domain.Persistence, sharing domain.SharingStore, actor string, clock domain.Clock, logger domain.Logger) *ShareItem {
	return &ShareItem{
		persist: persist,
		sharing: sharing,
		actor:   actor,
		clock:   clock,
		logger:  logger,
	}
}

// Execute shares the item. An unknown share code and an existing share
// (without Force) are reported through Result with a nil error. A failed
// write returns ShareError together with the error.
func (uc *ShareItem) Execute(ctx context.Context, in ShareItemInput) (*ShareItemOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}
	if err := domain.ValidateShareCode(in.ShareCode); err != nil {
		return nil, err
	}

	items := uc.persist.Items()
	item, err := shared.GetItem(ctx, items, in.Ref)
	if err != nil {
		return nil, err
	}
	ref := item.Ref()

	dir := uc.sharing.Directory()
	recipient, err := dir.FindByShareCode(ctx, in.ShareCode)
	if errors.Is(err, domain.ErrUserNotFound) {
		return &ShareItemOutput{Result: domain.ShareUserNotFound}, nil
	}
	if err != nil {
		return uc.failed(nil, fmt.Errorf("find recipient: %w", err))
	}
	if recipient.UID == uc.actor {
		return nil, fmt.Errorf("%w: that is your own share code", domain.ErrInvalidShareCode)
	}

	shares := uc.sharing.Shares()
	prev, err := shares.Get(ctx, uc.actor, ref, recipient.UID)
	switch {
	case err == nil && !in.Force:
		return &ShareItemOutput{Result: domain.ShareAlreadyShared, Recipient: recipient}, nil
	case err != nil && !errors.Is(err, domain.ErrShareNotFound):
		return uc.failed(recipient, fmt.Errorf("check share: %w", err))
	}

	senderName, senderPhoto := uc.sender(ctx)
	now := uc.clock.Now()
	copyItem := &domain.ReceivedItem{
		OriginalItemID:   item.ID,
		OriginalItemType: item.Kind,
		OriginalOwnerUID: uc.actor,
		Data:             item.ShareSnapshot(),
		SenderUID:        uc.actor,
		SenderName:       senderName,
		SenderPhotoURL:   senderPhoto,
		SharedAt:         now,
	}

	received := uc.sharing.Received()
	saga := shared.NewSaga("share", uc.logger).
		Add(shared.Step{
			Name: "create received copy",
			Do:   func(ctx context.Context) error { return received.Create(ctx, recipient.UID, copyItem) },
			Undo: func(ctx context.Context) error { return received.Delete(ctx, recipient.UID, copyItem.ID) },
		}).
		Add(shared.Step{
			Name: "record share",
			Do: func(ctx context.Context) error {
				return shares.Put(ctx, uc.actor, ref, domain.ShareRecord{
					UID:            recipient.UID,
					Name:           nameOr(recipient.Name, "Unknown"),
					PhotoURL:       recipient.PhotoURL,
					SharedAt:       now,
					ReceivedItemID: copyItem.ID,
				})
			},
			Undo: func(ctx context.Context) error {
				if prev != nil {
					return shares.Put(ctx, uc.actor, ref, *prev)
				}
				return shares.Delete(ctx, uc.actor, ref, recipient.UID)
			},
		}).
		Add(shared.Step{
			Name: "increment shared count",
			Do: func(ctx context.Context) error {
				return adjustSharedCount(ctx, items, ref, +1, now)
			},
		})

	if err := saga.Run(ctx); err != nil {
		return uc.failed(recipient, err)
	}

	if uc.logger != nil {
		uc.logger.Info("share", fmt.Sprintf("shared %s with %s (code %d)", ref, recipient.UID, in.ShareCode))
	}
	return &ShareItemOutput{Result: domain.ShareSuccess, Recipient: recipient, Received: copyItem}, nil
}

func (uc *ShareItem) failed(recipient *domain.Profile, err error) (*ShareItemOutput, error) {
	if uc.logger != nil {
		uc.logger.Error("share", err.Error())
	}
	return &ShareItemOutput{Result: domain.ShareError, Recipient: recipient}, err
}

// sender returns the actor's display name and photo for the copy.
func (uc *ShareItem) sender(ctx context.Context) (name, photo string) {
	p, err := uc.sharing.Directory().Get(ctx, uc.actor)
	if err != nil {
		return "Unknown", ""
	}
	return nameOr(p.Name, nameOr(p.Email, "Unknown")), p.PhotoURL
}

// adjustSharedCount re-reads the item and adds delta, flooring at zero.
func adjustSharedCount(ctx context.Context, items domain.ItemRepository, ref domain.ItemRef, delta int, now time.Time) error {
	it, err := items.Get(ctx, ref)
	if err != nil {
		return err
	}
	it.SharedCount = max(0, it.SharedCount+delta)
	it.UpdatedAt = now
	return items.Save(ctx, it)
}

func nameOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
