package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// ExportSnapshotOutput contains the serialized backup.
type ExportSnapshotOutput struct {
	Filename string
	Data     []byte
	Count    int // Number of items in the backup
}

// ExportSnapshot is the use case for writing the JSON backup document.
type ExportSnapshot struct {
	persist domain.Persistence
	clock   domain.Clock
}

// NewExportSnapshot creates a new ExportSnapshot use case.
func NewExportSnapshot(persist domain.Persistence, clock domain.Clock) *ExportSnapshot {
	return &ExportSnapshot{persist: persist, clock: clock}
}

// Execute serializes every active, expired and completed item of both kinds
// plus the saved chats.
func (uc *ExportSnapshot) Execute(ctx context.Context) (*ExportSnapshotOutput, error) {
	items := uc.persist.Items()
	tasks, err := items.List(ctx, domain.KindTask)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	letters, err := items.List(ctx, domain.KindLetter)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	chats, err := uc.persist.Chats().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	now := uc.clock.Now()
	snap := domain.BuildSnapshot(tasks, letters, chats, now)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}

	return &ExportSnapshotOutput{
		Filename: "taskmaster_backup_" + now.Format("2006-01-02_15-04") + ".json",
		Data:     data,
		Count:    snap.Count(),
	}, nil
}
