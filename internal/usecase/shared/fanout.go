package shared

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// maxFanOut bounds the concurrent writes of one broadcast.
const maxFanOut = 8

// Broadcaster propagates field patches between a shared item's owner and
// the copies its recipients hold. Writes are best effort: failures are
// logged at warn level and counted, never returned.
type Broadcaster struct {
	store  domain.SharingStore
	logger domain.Logger
}

// NewBroadcaster creates a Broadcaster. logger may be nil.
func NewBroadcaster(store domain.SharingStore, logger domain.Logger) *Broadcaster {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Broadcaster{store: store, logger: logger}
}

// ToOwner patches the owner's original item.
func (b *Broadcaster) ToOwner(ctx context.Context, ownerUID string, ref domain.ItemRef, updates []domain.FieldUpdate, now time.Time) error {
	items := b.store.ItemsOf(ownerUID)
	it, err := items.Get(ctx, ref)
	if err != nil {
		return fmt.Errorf("get original %s: %w", ref, err)
	}
	for _, u := range updates {
		if err := it.Apply(u); err != nil {
			return err
		}
	}
	it.UpdatedAt = now
	if err := items.Save(ctx, it); err != nil {
		return fmt.Errorf("save original %s: %w", ref, err)
	}
	return nil
}

// ToRecipients patches every recipient's copy of the owner's item except
// skipUID's. Writes run concurrently with no ordering across recipients.
// It returns the number of recipients that could not be updated.
func (b *Broadcaster) ToRecipients(ctx context.Context, ownerUID string, ref domain.ItemRef, skipUID string, updates []domain.FieldUpdate, now time.Time) int {
	records, err := b.store.Shares().List(ctx, ownerUID, ref)
	if err != nil {
		b.logger.Warn("share", fmt.Sprintf("list shares of %s: %v", ref, err))
		return 1
	}

	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(maxFanOut)
	for _, rec := range records {
		if rec.UID == skipUID || rec.UID == ownerUID {
			continue
		}
		g.Go(func() error {
			if err := b.patchRecipient(ctx, ownerUID, ref, rec, updates, now); err != nil {
				failed.Add(1)
				b.logger.Warn("share", fmt.Sprintf("fan-out %s to %s: %v", ref, rec.UID, err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

func (b *Broadcaster) patchRecipient(ctx context.Context, ownerUID string, ref domain.ItemRef, rec domain.ShareRecord, updates []domain.FieldUpdate, now time.Time) error {
	copies, err := LocateCopies(ctx, b.store.Received(), ownerUID, ref, rec)
	if err != nil {
		return err
	}
	if len(copies) == 0 {
		return domain.ErrReceivedNotFound
	}

	var errs []error
	for _, c := range copies {
		if err := b.patchCopy(ctx, rec.UID, c, updates, now); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ToSiblings patches recipientUID's other copies of the owner's item,
// leaving exceptID alone. It returns the number of copies not updated.
func (b *Broadcaster) ToSiblings(ctx context.Context, ownerUID string, ref domain.ItemRef, recipientUID, exceptID string, updates []domain.FieldUpdate, now time.Time) int {
	copies, err := b.store.Received().FindByOriginal(ctx, recipientUID, ref.ID, ownerUID)
	if err != nil {
		b.logger.Warn("share", fmt.Sprintf("find copies of %s for %s: %v", ref, recipientUID, err))
		return 1
	}
	failed := 0
	for _, c := range copies {
		if c.ID == exceptID {
			continue
		}
		if err := b.patchCopy(ctx, recipientUID, c, updates, now); err != nil {
			failed++
			b.logger.Warn("share", fmt.Sprintf("fan-out %s to copy %s: %v", ref, c.ID, err))
		}
	}
	return failed
}

func (b *Broadcaster) patchCopy(ctx context.Context, recipientUID string, c *domain.ReceivedItem, updates []domain.FieldUpdate, now time.Time) error {
	for _, u := range updates {
		if err := c.Data.Apply(u); err != nil {
			return err
		}
	}
	c.Data.UpdatedAt = now
	return b.store.Received().Save(ctx, recipientUID, c)
}

// LocateCopies returns every copy a recipient holds of the owner's item,
// including the one the share record points at. A forced re-share leaves
// more than one copy per recipient.
func LocateCopies(ctx context.Context, received domain.ReceivedRepository, ownerUID string, ref domain.ItemRef, rec domain.ShareRecord) ([]*domain.ReceivedItem, error) {
	copies, err := received.FindByOriginal(ctx, rec.UID, ref.ID, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("find copies: %w", err)
	}
	if rec.ReceivedItemID == "" || slices.ContainsFunc(copies, func(c *domain.ReceivedItem) bool {
		return c.ID == rec.ReceivedItemID
	}) {
		return copies, nil
	}
	c, err := received.Get(ctx, rec.UID, rec.ReceivedItemID)
	switch {
	case err == nil:
		return append(copies, c), nil
	case errors.Is(err, domain.ErrReceivedNotFound):
		return copies, nil
	default:
		return nil, err
	}
}
