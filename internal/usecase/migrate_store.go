package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct {
	// SkipChats migrates items only.
	SkipChats bool
}

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	Total    int
	Migrated int
	Skipped  int // Already present with identical content
	Chats    int
}

// MigrateStore copies the offline store into the signed-in user's managed
// collections, keeping ids and sequence numbers.
type MigrateStore struct {
	source domain.Persistence
	dest   domain.Persistence
	logger domain.Logger
	actor  string
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest domain.Persistence, actor string, logger domain.Logger) *MigrateStore {
	return &MigrateStore{source: source, dest: dest, actor: actor, logger: logger}
}

// Execute migrates every item and saved chat.
// Items already in the destination are skipped if identical; otherwise it fails
// before anything is written.
func (uc *MigrateStore) Execute(ctx context.Context, in MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.source == nil || uc.dest == nil {
		return nil, errors.New("source or destination store is nil")
	}
	if uc.dest.Mode() != domain.StoreManaged {
		return nil, domain.ErrSharingUnavailable
	}
	if uc.actor == "" {
		return nil, domain.ErrNoSession
	}

	out := &MigrateStoreOutput{}
	var pending []*domain.Item
	for _, kind := range domain.AllKinds() {
		items, err := uc.source.Items().List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list source %ss: %w", kind, err)
		}
		out.Total += len(items)

		for _, it := range items {
			it.OwnerID = uc.actor
			existing, err := uc.dest.Items().Get(ctx, it.Ref())
			switch {
			case errors.Is(err, domain.ErrItemNotFound):
				pending = append(pending, it)
			case err != nil:
				return nil, fmt.Errorf("get destination %s: %w", it.Ref(), err)
			default:
				same, err := sameItem(existing, it)
				if err != nil {
					return nil, err
				}
				if !same {
					return nil, fmt.Errorf("%w: %s", domain.ErrMigrationConflict, it.Ref())
				}
				out.Skipped++
			}
		}
	}

	if len(pending) > 0 {
		if err := uc.dest.Items().SaveBatch(ctx, pending); err != nil {
			return nil, fmt.Errorf("save items: %w", err)
		}
	}
	out.Migrated = len(pending)

	if !in.SkipChats {
		chats, err := uc.source.Chats().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list source chats: %w", err)
		}
		if len(chats) > 0 {
			if err := uc.dest.Chats().SaveBatch(ctx, chats); err != nil {
				return nil, fmt.Errorf("save chats: %w", err)
			}
		}
		out.Chats = len(chats)
	}

	if uc.logger != nil {
		uc.logger.Info("migrate", fmt.Sprintf("migrated %d/%d items (%d skipped), %d chats to %s",
			out.Migrated, out.Total, out.Skipped, out.Chats, uc.actor))
	}
	return out, nil
}

// sameItem compares the stored documents of a and b.
func sameItem(a, b *domain.Item) (bool, error) {
	x, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("encode item: %w", err)
	}
	y, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("encode item: %w", err)
	}
	return bytes.Equal(x, y), nil
}
