package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ResyncReceivedOutput contains the result of a resync.
type ResyncReceivedOutput struct {
	Updated  int // Copies refreshed from the owner's item
	Orphaned int // Copies whose original no longer exists
	Failed   int // Copies that could not be read or written
}

// ResyncReceived refreshes every copy the actor holds from the owner's live
// item and heals legacy copies that lack owner metadata.
type ResyncReceived struct {
	sharing domain.SharingStore
	logger  domain.Logger
	actor   string
}

// NewResyncReceived creates a new ResyncReceived use case.
func NewResyncReceived(sharing domain.SharingStore, actor string, logger domain.Logger) *ResyncReceived {
	return &ResyncReceived{
		sharing: sharing,
		actor:   actor,
		logger:  logger,
	}
}

// Execute resyncs all received copies concurrently. Orphaned copies are left
// untouched.
func (uc *ResyncReceived) Execute(ctx context.Context) (*ResyncReceivedOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}

	received := uc.sharing.Received()
	copies, err := received.List(ctx, uc.actor)
	if err != nil {
		return nil, fmt.Errorf("list received items: %w", err)
	}

	var updated, orphaned, failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(8)
	for _, r := range copies {
		g.Go(func() error {
			switch err := uc.resyncOne(ctx, r); {
			case err == nil:
				updated.Add(1)
			case errors.Is(err, domain.ErrItemNotFound):
				orphaned.Add(1)
				uc.warn(fmt.Sprintf("orphaned share %s: original %s of %s is gone", r.ID, r.OriginalRef(), r.OwnerUID()))
			default:
				failed.Add(1)
				uc.warn(fmt.Sprintf("resync %s: %v", r.ID, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	out := &ResyncReceivedOutput{
		Updated:  int(updated.Load()),
		Orphaned: int(orphaned.Load()),
		Failed:   int(failed.Load()),
	}
	if uc.logger != nil {
		uc.logger.Info("share", fmt.Sprintf("resync: %d updated, %d orphaned, %d failed", out.Updated, out.Orphaned, out.Failed))
	}
	return out, nil
}

func (uc *ResyncReceived) resyncOne(ctx context.Context, r *domain.ReceivedItem) error {
	owner, ref := r.OwnerUID(), r.OriginalRef()
	if owner == "" || !ref.Kind.IsValid() {
		return fmt.Errorf("%w: copy has no usable origin", domain.ErrItemNotFound)
	}

	it, err := uc.sharing.ItemsOf(owner).Get(ctx, ref)
	if err != nil {
		return err
	}

	r.Data = it.ShareSnapshot()
	r.OriginalOwnerUID = owner
	r.OriginalItemID = ref.ID
	r.OriginalItemType = ref.Kind
	return uc.sharing.Received().Save(ctx, uc.actor, r)
}

func (uc *ResyncReceived) warn(msg string) {
	if uc.logger != nil {
		uc.logger.Warn("share", msg)
	}
}
