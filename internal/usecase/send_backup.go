package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// SendBackupInput contains the parameters for e-mailing a backup.
type SendBackupInput struct {
	To string // Recipient (empty = configured backup address, then the profile e-mail)
}

// SendBackupOutput contains the result of e-mailing a backup.
type SendBackupOutput struct {
	To       string
	Filename string
	Count    int
}

// SendBackup is the use case for e-mailing the JSON backup as an attachment.
type SendBackup struct {
	export       *ExportSnapshot
	mailer       domain.Mailer
	sharing      domain.SharingStore
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       domain.Logger
	actor        string
}

// NewSendBackup creates a new SendBackup use case. mailer is nil when mail is
// not configured; sharing is nil in local mode.
func NewSendBackup(export *ExportSnapshot, mailer domain.Mailer, sharing domain.SharingStore, configLoader domain.ConfigLoader, actor string, clock domain.Clock, logger domain.Logger) *SendBackup {
	return &SendBackup{
		export:       export,
		mailer:       mailer,
		sharing:      sharing,
		configLoader: configLoader,
		actor:        actor,
		clock:        clock,
		logger:       logger,
	}
}

// Execute sends the backup. Failures are returned, not retried.
func (uc *SendBackup) Execute(ctx context.Context, in SendBackupInput) (*SendBackupOutput, error) {
	if uc.mailer == nil {
		return nil, domain.ErrMailerNotConfigured
	}

	to, name, err := uc.recipient(ctx, in.To)
	if err != nil {
		return nil, err
	}

	snap, err := uc.export.Execute(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	filename := "HTS_Task_Backup_" + now.Format("2006-01-02_15-04") + ".json"
	mail := domain.Mail{
		To:             to,
		Subject:        "HTS Task Backup " + now.Format("2006-01-02 15:04"),
		Body:           fmt.Sprintf("Hello %s,\n\nAttached is your backup with %d items.\n", name, snap.Count),
		AttachmentName: filename,
		Attachment:     snap.Data,
	}
	if err := uc.mailer.Send(ctx, mail); err != nil {
		if uc.logger != nil {
			uc.logger.Error("backup", fmt.Sprintf("send to %s: %v", to, err))
		}
		return nil, fmt.Errorf("send backup: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("backup", fmt.Sprintf("sent %s (%d items) to %s", filename, snap.Count, to))
	}
	return &SendBackupOutput{To: to, Filename: filename, Count: snap.Count}, nil
}

// recipient resolves the address and greeting name.
func (uc *SendBackup) recipient(ctx context.Context, explicit string) (to, name string, err error) {
	to = explicit
	if to == "" && uc.configLoader != nil {
		cfg, err := uc.configLoader.Load()
		if err != nil {
			return "", "", fmt.Errorf("load config: %w", err)
		}
		to = cfg.Backup.Email
	}

	if uc.sharing != nil && uc.actor != "" {
		p, err := uc.sharing.Directory().Get(ctx, uc.actor)
		switch {
		case err == nil:
			name = p.Name
			if to == "" {
				to = p.Email
			}
		case !errors.Is(err, domain.ErrUserNotFound):
			return "", "", fmt.Errorf("get profile: %w", err)
		}
	}

	if to == "" {
		return "", "", domain.ErrNoBackupRecipient
	}
	if name == "" {
		name, _, _ = strings.Cut(to, "@")
	}
	return to, name, nil
}
