package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ImportSnapshotInput contains the backup document to restore.
type ImportSnapshotInput struct {
	Data []byte
}

// ImportSnapshotOutput contains the number of restored records.
type ImportSnapshotOutput struct {
	Mode  domain.StoreMode
	Items int
	Chats int
}

// ImportSnapshot is the use case for restoring a JSON backup.
// In managed mode items are merged by id onto existing records, keeping
// fields the backup omits. In local mode the backup replaces all data.
type ImportSnapshot struct {
	persist domain.Persistence
	clock   domain.Clock
	logger  domain.Logger
}

// NewImportSnapshot creates a new ImportSnapshot use case.
func NewImportSnapshot(persist domain.Persistence, clock domain.Clock, logger domain.Logger) *ImportSnapshot {
	return &ImportSnapshot{persist: persist, clock: clock, logger: logger}
}

// Execute restores the backup.
func (uc *ImportSnapshot) Execute(ctx context.Context, in ImportSnapshotInput) (*ImportSnapshotOutput, error) {
	raw, err := domain.ParseSnapshot(in.Data)
	if err != nil {
		return nil, err
	}

	merge := uc.persist.Mode() == domain.StoreManaged
	now := uc.clock.Now()
	items := uc.persist.Items()

	entries := raw.Entries()
	restored := make([]*domain.Item, 0, len(entries))
	for i, e := range entries {
		var base *domain.Item
		if id := domain.EntryID(e.Data); merge && id != "" {
			existing, err := items.Get(ctx, domain.ItemRef{Kind: e.Kind, ID: id})
			switch {
			case err == nil:
				base = existing
			case !errors.Is(err, domain.ErrItemNotFound):
				return nil, fmt.Errorf("get item %s: %w", id, err)
			}
		}

		it, err := domain.DecodeEntry(e, base)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		it.ApplyDefaults(now)
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		restored = append(restored, it)
	}
	fillNumbers(restored)

	chats := raw.SavedChats
	if merge {
		if err := items.SaveBatch(ctx, restored); err != nil {
			return nil, uc.fail("save items", err)
		}
		if len(chats) > 0 {
			if err := uc.persist.Chats().SaveBatch(ctx, chats); err != nil {
				return nil, uc.fail("save chats", err)
			}
		}
	} else {
		if err := items.ReplaceAll(ctx, restored); err != nil {
			return nil, uc.fail("replace items", err)
		}
		if err := uc.persist.Chats().ReplaceAll(ctx, chats); err != nil {
			return nil, uc.fail("replace chats", err)
		}
	}

	if uc.logger != nil {
		uc.logger.Info("backup", fmt.Sprintf("imported %d items, %d chats (%s)", len(restored), len(chats), uc.persist.Mode()))
	}
	return &ImportSnapshotOutput{Mode: uc.persist.Mode(), Items: len(restored), Chats: len(chats)}, nil
}

func (uc *ImportSnapshot) fail(op string, err error) error {
	if uc.logger != nil {
		uc.logger.Error("backup", fmt.Sprintf("%s: %v", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// fillNumbers numbers entries that carried no sequence number after the
// highest number of their kind.
func fillNumbers(items []*domain.Item) {
	next := map[domain.Kind]int{}
	for _, it := range items {
		if it.Number >= next[it.Kind] {
			next[it.Kind] = it.Number + 1
		}
	}
	for _, it := range items {
		if it.Number == 0 {
			if next[it.Kind] == 0 {
				next[it.Kind] = 1
			}
			it.Number = next[it.Kind]
			next[it.Kind]++
		}
	}
}
