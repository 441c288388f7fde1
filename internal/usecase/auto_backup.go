package usecase

import (
	"context"
	"fmt"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// SetAutoBackupInput contains the new switch value.
type SetAutoBackupInput struct {
	Enabled bool
}

// SetAutoBackup is the use case for turning scheduled backups on or off.
type SetAutoBackup struct {
	prefs domain.BackupPreference
}

// NewSetAutoBackup creates a new SetAutoBackup use case.
func NewSetAutoBackup(prefs domain.BackupPreference) *SetAutoBackup {
	return &SetAutoBackup{prefs: prefs}
}

// Execute stores the switch.
func (uc *SetAutoBackup) Execute(_ context.Context, in SetAutoBackupInput) error {
	if err := uc.prefs.SetAutoBackup(in.Enabled); err != nil {
		return fmt.Errorf("save auto-backup setting: %w", err)
	}
	return nil
}

// RunAutoBackupOutput reports what a scheduled run did.
type RunAutoBackupOutput struct {
	Sent    *SendBackupOutput // nil when skipped
	Skipped bool              // Auto-backup is switched off
}

// RunAutoBackup is the scheduled job: it sends a backup when the switch is on.
type RunAutoBackup struct {
	prefs  domain.BackupPreference
	send   *SendBackup
	logger domain.Logger
}

// NewRunAutoBackup creates a new RunAutoBackup use case.
func NewRunAutoBackup(prefs domain.BackupPreference, send *SendBackup, logger domain.Logger) *RunAutoBackup {
	return &RunAutoBackup{prefs: prefs, send: send, logger: logger}
}

// Execute sends the backup if enabled. A failed send is reported, not retried.
func (uc *RunAutoBackup) Execute(ctx context.Context) (*RunAutoBackupOutput, error) {
	enabled, err := uc.prefs.AutoBackupEnabled()
	if err != nil {
		return nil, fmt.Errorf("read auto-backup setting: %w", err)
	}
	if !enabled {
		if uc.logger != nil {
			uc.logger.Debug("backup", "auto-backup disabled, skipping")
		}
		return &RunAutoBackupOutput{Skipped: true}, nil
	}

	out, err := uc.send.Execute(ctx, SendBackupInput{})
	if err != nil {
		return nil, fmt.Errorf("auto-backup: %w", err)
	}
	return &RunAutoBackupOutput{Sent: out}, nil
}
