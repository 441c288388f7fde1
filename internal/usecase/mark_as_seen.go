package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// MarkAsSeenInput contains the parameters for marking a received copy as seen.
type MarkAsSeenInput struct {
	ID string // Received item ID (required)
}

// MarkAsSeenOutput contains the result of marking a copy as seen.
// Fields are ordered to minimize memory padding.
type MarkAsSeenOutput struct {
	SeenAt    time.Time
	FirstSeen bool // The copy had not been seen before
	OwnerTold bool // The owner's share record now carries lastSeen
}

// MarkAsSeen stamps the owner's share record with lastSeen on every open and
// the recipient's copy with seenAt on the first open.
type MarkAsSeen struct {
	sharing domain.SharingStore
	clock   domain.Clock
	logger  domain.Logger
	actor   string
}

// NewMarkAsSeen creates a new MarkAsSeen use case.
func NewMarkAsSeen(sharing domain.SharingStore, actor string, clock domain.Clock, logger domain.Logger) *MarkAsSeen {
	return &MarkAsSeen{
		sharing: sharing,
		actor:   actor,
		clock:   clock,
		logger:  logger,
	}
}

// Execute marks the copy as seen. Only a missing copy fails the call.
func (uc *MarkAsSeen) Execute(ctx context.Context, in MarkAsSeenInput) (*MarkAsSeenOutput, error) {
	if uc.sharing == nil {
		return nil, domain.ErrSharingUnavailable
	}

	received := uc.sharing.Received()
	r, err := received.Get(ctx, uc.actor, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get received item: %w", err)
	}

	now := uc.clock.Now()
	out := &MarkAsSeenOutput{SeenAt: now}

	owner, ref := r.OwnerUID(), r.OriginalRef()
	if err := uc.touchOwnerRecord(ctx, owner, ref, now); err != nil {
		uc.warn(fmt.Sprintf("record last seen on %s of %s: %v", ref, owner, err))
	} else {
		out.OwnerTold = true
	}

	if r.SeenAt == nil {
		r.SeenAt = domain.TimePtr(now)
		if err := received.Save(ctx, uc.actor, r); err != nil {
			uc.warn(fmt.Sprintf("stamp seen on %s: %v", r.ID, err))
		} else {
			out.FirstSeen = true
		}
	} else {
		out.SeenAt = *r.SeenAt
	}
	return out, nil
}

func (uc *MarkAsSeen) touchOwnerRecord(ctx context.Context, owner string, ref domain.ItemRef, now time.Time) error {
	shares := uc.sharing.Shares()
	rec, err := shares.Get(ctx, owner, ref, uc.actor)
	if err != nil {
		return err
	}
	rec.LastSeen = domain.TimePtr(now)
	return shares.Put(ctx, owner, ref, *rec)
}

func (uc *MarkAsSeen) warn(msg string) {
	if uc.logger != nil {
		uc.logger.Warn("share", msg)
	}
}
