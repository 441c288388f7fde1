package domain

import "errors"

// Domain errors.
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrReceivedNotFound     = errors.New("received item not found")
	ErrShareNotFound        = errors.New("share not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileExists        = errors.New("profile already registered")
	ErrInvalidKind          = errors.New("invalid item kind")
	ErrInvalidItem          = errors.New("invalid item")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidTime          = errors.New("invalid time")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrInvalidCategory      = errors.New("invalid clean-up category")
	ErrInvalidShareCode     = errors.New("invalid share code")
	ErrShareCodeTaken       = errors.New("share code already in use")
	ErrInvalidBackup        = errors.New("invalid backup file")
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
	ErrNoDataToExport       = errors.New("no data to export")
	ErrSharingUnavailable   = errors.New("sharing requires managed storage mode")
	ErrNoSession            = errors.New("no signed-in user (set session.uid in config)")
	ErrMailerNotConfigured  = errors.New("mail delivery not configured")
	ErrNoBackupRecipient    = errors.New("no backup recipient email")
	ErrNoEmail              = errors.New("no e-mail address")
	ErrConfigExists         = errors.New("config file already exists")
	ErrEmptyFile            = errors.New("file is empty")
	ErrNoItemsInFile        = errors.New("no items found in file")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidStoreMode     = errors.New("invalid store mode (want managed or local)")
	ErrMigrationConflict    = errors.New("item already exists with different content")
)
